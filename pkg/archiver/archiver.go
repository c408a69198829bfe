package archiver

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/placement"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

type Options struct {
	ArchiveRoot string // 归档根目录
	FolderName  string // 根目录下的归档子目录名
	Days        int    // 超过该天数未修改的文件被归档
	YearSuffix  string
	MonthSuffix string
	DryRun      bool
	Now         func() time.Time
}

type Archiver struct {
	lister *scanner.DirLister
	mover  *placement.Mover
	opts   Options
}

func New(fs afero.Fs, opts Options) *Archiver {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Archiver{
		lister: scanner.NewDirLister(fs),
		mover:  placement.NewMover(fs),
		opts:   opts,
	}
}

// IsStale 文件年龄严格大于阈值天数时返回 true
func (a *Archiver) IsStale(modTime, now time.Time) bool {
	return now.Sub(modTime) > time.Duration(a.opts.Days)*24*time.Hour
}

// Folder 返回修改时间为 modTime 的文件的归档目录
func (a *Archiver) Folder(modTime time.Time) string {
	return placement.DatedFolder(
		filepath.Join(a.opts.ArchiveRoot, a.opts.FolderName),
		modTime.Local(),
		a.opts.YearSuffix,
		a.opts.MonthSuffix,
	)
}

// ArchiveOldFiles 将 sourceDir 中超过阈值天数未修改的文件移动到
// 归档根目录/归档子目录/<年>/<月>。遇到第一个错误即中止。
func (a *Archiver) ArchiveOldFiles(sourceDir string) (*internal.PhaseStats, error) {
	logger.Get().Info().Int("days", a.opts.Days).Msgf("开始整理 %d 天以上未更新的文件", a.opts.Days)

	entries, err := a.lister.ListFiles(sourceDir)
	if err != nil {
		return nil, err
	}

	stats := &internal.PhaseStats{Phase: internal.PhaseArchive, DryRun: a.opts.DryRun}
	now := a.opts.Now()

	for _, entry := range entries {
		stats.Scanned++

		if !a.IsStale(entry.ModTime, now) {
			stats.Skipped++
			continue
		}

		logger.Get().Info().
			Str("file", entry.Name).
			Time("modified", entry.ModTime).
			Msg("检测到旧文件")

		move, err := a.archive(entry)
		if err != nil {
			return stats, fmt.Errorf("归档 %s: %w", entry.Name, err)
		}
		stats.Record(move)
	}

	logger.Get().Info().Int("archived", stats.Moved).Msg("旧文件整理完成")
	return stats, nil
}

func (a *Archiver) archive(entry scanner.Entry) (internal.Move, error) {
	folder := a.Folder(entry.ModTime)
	move := internal.Move{
		Source: entry.Path,
		Folder: a.opts.FolderName,
		Size:   entry.Size,
	}

	var dest string
	var err error
	if a.opts.DryRun {
		dest, err = a.mover.Resolve(folder, entry.Name)
		if err == nil {
			logger.Get().Info().Str("file", entry.Name).Str("dest", folder).Msg("预览: 将移动")
		}
	} else {
		dest, err = a.mover.MoveFile(entry.Path, folder, entry.Name)
	}
	if err != nil {
		return move, err
	}

	move.Destination = dest
	move.Renamed = filepath.Base(dest) != entry.Name
	return move, nil
}

package organizer

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/placement"
	"github.com/moyu-x/file-organizer/pkg/rules"
	"github.com/moyu-x/file-organizer/pkg/scanner"
)

type Options struct {
	DestinationRoot string
	Rules           *rules.RuleSet
	SelfName        string // 程序自身的文件名，整理时跳过
	YearSuffix      string
	MonthSuffix     string
	SniffContent    bool // 无扩展名的文件按文件头识别类型
	DryRun          bool
	// Exclude 中的源路径不参与整理。预览模式下用于排除归档阶段已计划移动的文件。
	Exclude map[string]bool
}

type Organizer struct {
	fs     afero.Fs
	lister *scanner.DirLister
	mover  *placement.Mover
	opts   Options
}

func New(fs afero.Fs, opts Options) *Organizer {
	if opts.Rules == nil {
		opts.Rules = rules.New(nil, nil)
	}
	return &Organizer{
		fs:     fs,
		lister: scanner.NewDirLister(fs),
		mover:  placement.NewMover(fs),
		opts:   opts,
	}
}

// Classify 决定文件的分类规则，不移动文件
func (o *Organizer) Classify(entry scanner.Entry) (rules.Match, error) {
	if m, ok := o.opts.Rules.MatchKeyword(entry.Name); ok {
		return m, nil
	}

	ext := entry.Ext
	if ext == "" && o.opts.SniffContent {
		sniffed, err := o.sniffExtension(entry.Path)
		if err != nil {
			return rules.Match{}, err
		}
		if sniffed != "" {
			logger.Get().Debug().Str("file", entry.Name).Str("ext", sniffed).Msg("按文件头识别扩展名")
		}
		ext = sniffed
	}

	if m, ok := o.opts.Rules.MatchExtension(ext); ok {
		return m, nil
	}
	return rules.Match{}, nil
}

// OrganizeFiles 按关键字和扩展名规则将 sourceDir 中的文件移动到
// 目标根目录/<年>/<月>/<分类>。没有命中规则的文件保持原位。
func (o *Organizer) OrganizeFiles(sourceDir string) (*internal.PhaseStats, error) {
	logger.Get().Info().Str("source", sourceDir).Msg("开始整理文件")

	entries, err := o.lister.ListFiles(sourceDir)
	if err != nil {
		return nil, err
	}

	stats := &internal.PhaseStats{Phase: internal.PhaseOrganize, DryRun: o.opts.DryRun}

	for _, entry := range entries {
		if o.opts.SelfName != "" && entry.Name == o.opts.SelfName {
			continue
		}
		if o.opts.Exclude[entry.Path] {
			logger.Get().Debug().Str("file", entry.Name).Msg("已计划归档，跳过")
			continue
		}
		stats.Scanned++

		match, err := o.Classify(entry)
		if err != nil {
			return stats, fmt.Errorf("识别 %s: %w", entry.Name, err)
		}
		if !match.Matched() {
			logger.Get().Debug().Str("file", entry.Name).Msg("没有匹配的规则，保持原位")
			stats.Skipped++
			continue
		}

		move, err := o.place(entry, match)
		if err != nil {
			return stats, fmt.Errorf("整理 %s: %w", entry.Name, err)
		}
		stats.Record(move)
	}

	logger.Get().Info().Int("moved", stats.Moved).Int("skipped", stats.Skipped).Msg("本次文件整理完成")
	return stats, nil
}

func (o *Organizer) place(entry scanner.Entry, match rules.Match) (internal.Move, error) {
	folder := placement.DatedFolder(
		o.opts.DestinationRoot,
		entry.ModTime.Local(),
		o.opts.YearSuffix,
		o.opts.MonthSuffix,
		match.Folder,
	)
	move := internal.Move{
		Source: entry.Path,
		Rule:   match.Kind.String() + ":" + match.Rule,
		Folder: match.Folder,
		Size:   entry.Size,
	}

	var dest string
	var err error
	if o.opts.DryRun {
		dest, err = o.mover.Resolve(folder, entry.Name)
		if err == nil {
			logger.Get().Info().Str("file", entry.Name).Str("dest", folder).Msg("预览: 将移动")
		}
	} else {
		dest, err = o.mover.MoveFile(entry.Path, folder, entry.Name)
	}
	if err != nil {
		return move, err
	}

	move.Destination = dest
	move.Renamed = filepath.Base(dest) != entry.Name
	return move, nil
}

package app

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/archiver"
	"github.com/moyu-x/file-organizer/pkg/logger"
	"github.com/moyu-x/file-organizer/pkg/organizer"
)

type Options struct {
	Config   *config.Config
	Fs       afero.Fs
	SelfName string // 程序自身的文件名，整理阶段跳过
	Now      func() time.Time
}

func (o *Options) fs() afero.Fs {
	if o.Fs == nil {
		o.Fs = afero.NewOsFs()
	}
	return o.Fs
}

func (o *Options) now() time.Time {
	if o.Now == nil {
		return time.Now()
	}
	return o.Now()
}

// Run 先归档旧文件，再整理剩余文件。任一阶段出错即中止，
// 已经移动的文件保持移动后的状态。
func Run(opts *Options) (*internal.RunStats, error) {
	stats := &internal.RunStats{
		DryRun:    opts.Config.DryRun,
		StartTime: opts.now(),
	}

	if err := CheckWatchFolder(opts); err != nil {
		return stats, err
	}

	logger.Get().Info().
		Str("watch", opts.Config.WatchFolder).
		Str("dest", opts.Config.DestinationBaseFolder).
		Bool("dry_run", opts.Config.DryRun).
		Msg("开始处理")

	archived, err := RunArchive(opts)
	stats.Archive = archived
	if err != nil {
		stats.EndTime = opts.now()
		return stats, err
	}

	organized, err := runOrganize(opts, plannedSources(archived))
	stats.Organize = organized
	stats.EndTime = opts.now()
	if err != nil {
		return stats, err
	}

	logger.Get().Info().Msg("全部处理完成")
	return stats, nil
}

// RunArchive 只执行归档阶段
func RunArchive(opts *Options) (*internal.PhaseStats, error) {
	cfg := opts.Config
	a := archiver.New(opts.fs(), archiver.Options{
		ArchiveRoot: cfg.DestinationBaseFolder,
		FolderName:  cfg.Archive.FolderName,
		Days:        cfg.Archive.Days,
		YearSuffix:  cfg.Layout.YearSuffix,
		MonthSuffix: cfg.Layout.MonthSuffix,
		DryRun:      cfg.DryRun,
		Now:         opts.Now,
	})

	stats, err := a.ArchiveOldFiles(cfg.WatchFolder)
	if err != nil {
		return stats, fmt.Errorf("归档阶段失败: %w", err)
	}
	return stats, nil
}

// RunOrganize 只执行整理阶段
func RunOrganize(opts *Options) (*internal.PhaseStats, error) {
	return runOrganize(opts, nil)
}

// plannedSources 返回预览模式下归档阶段计划移动的源路径。
// 实际运行时这些文件已经不在源目录中，返回 nil。
func plannedSources(stats *internal.PhaseStats) map[string]bool {
	if stats == nil || !stats.DryRun {
		return nil
	}
	sources := make(map[string]bool, len(stats.Moves))
	for _, m := range stats.Moves {
		sources[m.Source] = true
	}
	return sources
}

func runOrganize(opts *Options, exclude map[string]bool) (*internal.PhaseStats, error) {
	cfg := opts.Config
	o := organizer.New(opts.fs(), organizer.Options{
		DestinationRoot: cfg.DestinationBaseFolder,
		Rules:           cfg.RuleSet(),
		SelfName:        opts.SelfName,
		YearSuffix:      cfg.Layout.YearSuffix,
		MonthSuffix:     cfg.Layout.MonthSuffix,
		SniffContent:    cfg.Rules.SniffContent,
		DryRun:          cfg.DryRun,
		Exclude:         exclude,
	})

	stats, err := o.OrganizeFiles(cfg.WatchFolder)
	if err != nil {
		return stats, fmt.Errorf("整理阶段失败: %w", err)
	}
	return stats, nil
}

// CheckWatchFolder 确认监视目录存在且是目录
func CheckWatchFolder(opts *Options) error {
	dir := opts.Config.WatchFolder
	ok, err := afero.DirExists(opts.fs(), dir)
	if err != nil {
		return fmt.Errorf("检查监视目录 %s: %w", dir, err)
	}
	if !ok {
		return &config.ValidationError{Field: "watch_folder", Reason: fmt.Sprintf("目录 %s 不存在", dir)}
	}
	return nil
}

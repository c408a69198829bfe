package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/app"
	"github.com/moyu-x/file-organizer/internal"
)

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "只归档超过指定天数未修改的文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFailureBoundary(cmd, func(opts *app.Options) (*internal.RunStats, error) {
				return runPhase(opts, app.RunArchive, func(s *internal.RunStats, p *internal.PhaseStats) { s.Archive = p })
			})
		},
	}
}

func newOrganizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "organize",
		Short: "只按关键字和扩展名整理文件，不归档",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFailureBoundary(cmd, func(opts *app.Options) (*internal.RunStats, error) {
				return runPhase(opts, app.RunOrganize, func(s *internal.RunStats, p *internal.PhaseStats) { s.Organize = p })
			})
		},
	}
}

func runPhase(
	opts *app.Options,
	phase func(*app.Options) (*internal.PhaseStats, error),
	assign func(*internal.RunStats, *internal.PhaseStats),
) (*internal.RunStats, error) {
	stats := &internal.RunStats{DryRun: opts.Config.DryRun, StartTime: time.Now()}

	if err := app.CheckWatchFolder(opts); err != nil {
		return stats, err
	}

	p, err := phase(opts)
	assign(stats, p)
	stats.EndTime = time.Now()
	return stats, err
}

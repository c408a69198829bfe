package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/moyu-x/file-organizer/app"
	"github.com/moyu-x/file-organizer/config"
	"github.com/moyu-x/file-organizer/internal"
	"github.com/moyu-x/file-organizer/pkg/logger"
)

// stdinIsTerminal 双击启动时标准输入是终端，此时失败信息需要用户确认后再退出
var stdinIsTerminal = func() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "归档旧文件，然后整理剩余文件",
		Args:  cobra.NoArgs,
		RunE:  runAll,
	}
}

func runAll(cmd *cobra.Command, args []string) error {
	return withFailureBoundary(cmd, func(opts *app.Options) (*internal.RunStats, error) {
		return app.Run(opts)
	})
}

// withFailureBoundary 加载配置并执行 action。出错时输出错误信息，
// 并在交互式终端中等待用户按回车后再返回。
func withFailureBoundary(cmd *cobra.Command, action func(*app.Options) (*internal.RunStats, error)) error {
	out := cmd.OutOrStdout()

	stats, err := execute(cmd, action)
	if err != nil {
		logger.Get().Error().Err(err).Msg("处理失败")
		fmt.Fprintln(out, app.FailureMessage(err))
		waitForEnter(cmd.InOrStdin(), out)
		return err
	}

	if stats != nil {
		fmt.Fprintln(out, app.Summary(stats))
	}
	if pause {
		waitForEnter(cmd.InOrStdin(), out)
	}
	return nil
}

func execute(cmd *cobra.Command, action func(*app.Options) (*internal.RunStats, error)) (stats *internal.RunStats, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("意外错误: %v", r)
		}
	}()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	logger.Get().Info().Msg("加载配置完成")

	return action(&app.Options{
		Config:   cfg,
		SelfName: selfName(),
	})
}

// loadConfig 读取配置，命令行参数优先于环境变量和配置文件
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	v := config.NewViper()

	bindings := map[string]string{
		"watch_folder":            "watch",
		"destination_base_folder": "dest",
		"archive.days":            "archive-days",
		"dry_run":                 "dry-run",
		"logging.level":           "log-level",
		"logging.file":            "log-file",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, lookupFlag(cmd, name)); err != nil {
			return nil, fmt.Errorf("绑定参数 %s: %w", name, err)
		}
	}

	return config.Load(v, cfgFile)
}

func lookupFlag(cmd *cobra.Command, name string) *pflag.Flag {
	if f := cmd.Flags().Lookup(name); f != nil {
		return f
	}
	return cmd.Root().PersistentFlags().Lookup(name)
}

// selfName 返回当前可执行文件的文件名，整理阶段据此跳过程序自身
func selfName() string {
	exe, err := os.Executable()
	if err != nil || exe == "" {
		exe = os.Args[0]
	}
	return filepath.Base(exe)
}

func waitForEnter(in io.Reader, out io.Writer) {
	if !stdinIsTerminal() {
		return
	}
	fmt.Fprint(out, "按回车键退出...")
	_, _ = bufio.NewReader(in).ReadString('\n')
}

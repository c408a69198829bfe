package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// 命令行参数，对应配置文件中的同名配置项
var (
	cfgFile     string // 配置文件路径
	watchFolder string // 监视目录
	destFolder  string // 目标根目录
	archiveDays int    // 归档阈值（天）
	dryRun      bool   // 预览模式
	logLevel    string // 日志级别
	logFile     string // 日志文件
	pause       bool   // 成功后也等待回车
)

// NewRootCmd 创建根命令。不带子命令运行时等同于 run。
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "file-organizer",
		Short: "按关键字、扩展名和修改时间整理下载目录",
		Long: `File Organizer 一次性整理监视目录中的文件:

1. 超过指定天数未修改的文件移动到 目标目录/归档目录/<年>/<月>
2. 其余文件先按文件名关键字、再按扩展名归类到 目标目录/<年>/<月>/<分类>
3. 目标位置已有同名文件时添加 _1、_2 ... 后缀，不会覆盖任何文件`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE:          runAll,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "配置文件路径 (默认搜索 $HOME/.file-organizer/config.yaml)")
	flags.StringVarP(&watchFolder, "watch", "w", "", "要整理的目录")
	flags.StringVarP(&destFolder, "dest", "d", "", "整理后的根目录")
	flags.IntVar(&archiveDays, "archive-days", 0, "超过该天数未修改的文件被归档")
	flags.BoolVarP(&dryRun, "dry-run", "n", false, "预览模式，不实际移动文件")
	flags.StringVar(&logLevel, "log-level", "", "日志级别: debug, info, warn, error")
	flags.StringVar(&logFile, "log-file", "", "日志文件路径")
	flags.BoolVar(&pause, "pause", false, "完成后等待回车再退出")

	rootCmd.AddCommand(newRunCmd(), newArchiveCmd(), newOrganizeCmd(), newExplainCmd())

	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/moyu-x/file-organizer/internal"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			MarginBottom(1)

	errorTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Faint(true)

	statsBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
)

// Summary 渲染一次运行的统计信息
func Summary(stats *internal.RunStats) string {
	var b strings.Builder

	title := "全部处理完成"
	if stats.DryRun {
		title = "预览完成（未移动任何文件）"
	}
	b.WriteString(titleStyle.Render(title) + "\n")

	writePhase(&b, "归档", stats.Archive)
	writePhase(&b, "整理", stats.Organize)

	if !stats.EndTime.IsZero() {
		b.WriteString(hintStyle.Render(fmt.Sprintf("耗时: %v", stats.EndTime.Sub(stats.StartTime).Round(time.Millisecond))))
	}

	return statsBoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func writePhase(b *strings.Builder, name string, s *internal.PhaseStats) {
	if s == nil {
		return
	}
	b.WriteString(labelStyle.Render(name) + "\n")
	fmt.Fprintf(b, "  扫描: %d  移动: %d  保持原位: %d  重命名: %d\n", s.Scanned, s.Moved, s.Skipped, s.Renamed)
	fmt.Fprintf(b, "  移动数据量: %s\n", humanize.Bytes(uint64(max(0, s.Bytes))))
}

// FailureMessage 渲染失败信息
func FailureMessage(err error) string {
	return statsBoxStyle.Render(errorTitleStyle.Render("处理失败") + "\n" + err.Error())
}

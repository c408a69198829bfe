package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moyu-x/file-organizer/pkg/rules"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <filename>...",
		Short: "显示文件名会命中哪条规则，不移动文件",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			rs := cfg.RuleSet()
			out := cmd.OutOrStdout()
			for _, name := range args {
				m := rs.Match(filepath.Base(name))
				if !m.Matched() {
					fmt.Fprintf(out, "%s\t%s\t(保持原位)\n", name, rules.KindNone)
					continue
				}
				fmt.Fprintf(out, "%s\t%s:%s\t%s\n", name, m.Kind, m.Rule, m.Folder)
			}
			return nil
		},
	}
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"locationmapper/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which external tools, helper scripts and directories are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			report := newCheckReport(preflight.CheckSystemDeps(cfg), preflight.RunAll(cfg))
			report.write(out, shouldColorize(out))

			if blockers := report.blockers(); len(blockers) > 0 {
				return fmt.Errorf("%d checks failed", len(blockers))
			}
			return nil
		},
	}
}

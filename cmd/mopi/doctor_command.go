package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"motionpicture/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, directories, and external tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			lines := renderSectionHeader("Configuration", colorize)
			configDetail := ctx.configPath
			if configDetail == "" {
				configDetail = "defaults"
			}
			lines = append(lines, renderStatusLine("Config", statusInfo, configDetail, colorize))
			lines = append(lines, renderStatusLine("Parallel", statusInfo,
				fmt.Sprintf("%s (%d workers, %d CPUs)", yesNo(cfg.Render.Parallel), cfg.Render.NumWorkers, runtime.NumCPU()), colorize))
			for _, warning := range cfg.Warnings() {
				lines = append(lines, renderStatusLine("Warning", statusWarn, warning, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Directories", colorize)...)
			for _, result := range preflight.RunAll(cfg) {
				kind := statusOK
				if !result.Passed {
					kind = statusWarn
				}
				lines = append(lines, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			lines = append(lines, "")
			lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
			missing := 0
			for _, status := range preflight.CheckDependencies(cmd.Context(), cfg) {
				kind := statusOK
				detail := status.Detail
				switch {
				case !status.Available && status.Optional:
					kind = statusWarn
				case !status.Available:
					kind = statusError
					missing++
				}
				if detail == "" {
					detail = status.Command
				}
				lines = append(lines, renderStatusLine(status.Name, kind, detail, colorize))
			}

			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if missing > 0 {
				return fmt.Errorf("%d required dependencies missing", missing)
			}
			return nil
		},
	}
}

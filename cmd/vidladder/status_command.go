package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"vidladder/internal/deps"
	"vidladder/internal/outputlock"
	"vidladder/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show configuration, dependency, and output directory health",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reg, err := ctx.registry()
			if err != nil {
				return err
			}

			binaries := preflight.CheckSystemDeps(cfg)
			var encoders []deps.Status
			// deps.Requirements lists ffmpeg first.
			if len(binaries) > 0 && binaries[0].Available {
				probeCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
				encoders = deps.CheckEncoders(probeCtx, nil, binaries[0].Command, reg)
				cancel()
			}
			outputCheck := preflight.CheckOutputDir(cfg.Paths.OutputDir)
			locked, lockErr := outputlock.Held(cfg.Paths.OutputDir)

			if jsonOut {
				payload := map[string]any{
					"config_path":   ctx.configPath,
					"config_exists": ctx.configExists,
					"output_dir":    outputCheck,
					"dependencies":  binaries,
					"encoders":      encoders,
					"output_locked": locked,
				}
				return writeJSON(cmd, payload)
			}

			out := cmd.OutOrStdout()
			report := newStatusReport(out)
			report.section("Configuration")
			configDetail := ctx.configPath
			configKind := statusOK
			if !ctx.configExists {
				configDetail += " (not found, using defaults)"
				configKind = statusInfo
			}
			report.add("Config", configKind, configDetail)
			report.add("Ladder", statusInfo, fmt.Sprintf("%d rungs, %d workers", len(cfg.LadderRungs()), cfg.Ladder.Workers))
			report.add("Codecs", statusInfo, strings.Join(reg.IDs(), ", "))

			report.section("Dependencies")
			report.dependencies(binaries)
			if len(encoders) > 0 {
				report.section("Encoders")
				report.dependencies(encoders)
			}

			report.section("Output")
			outKind := statusOK
			if !outputCheck.Passed {
				outKind = statusError
			}
			report.add("Directory", outKind, outputCheck.Detail)
			switch {
			case lockErr != nil:
				report.add("Lock", statusWarn, lockErr.Error())
			case locked:
				report.add("Lock", statusWarn, "held by another run")
			default:
				report.add("Lock", statusOK, "free")
			}

			report.writeTo(out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove encoded outputs (output_*) from the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.OutputDir
			if dir == "" {
				dir = "."
			}

			return withOutputLock(cfg, func() error {
				matches, err := filepath.Glob(filepath.Join(dir, "output_*"))
				if err != nil {
					return fmt.Errorf("list outputs: %w", err)
				}
				out := cmd.OutOrStdout()
				removed := 0
				for _, path := range matches {
					info, err := os.Lstat(path)
					if err != nil || !info.Mode().IsRegular() {
						continue
					}
					if dryRun {
						fmt.Fprintf(out, "Would remove %s\n", path)
						removed++
						continue
					}
					if err := os.Remove(path); err != nil {
						return fmt.Errorf("remove %s: %w", path, err)
					}
					fmt.Fprintf(out, "Removed %s\n", path)
					removed++
				}
				if removed == 0 {
					fmt.Fprintf(out, "No outputs in %s\n", dir)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List files without removing them")
	return cmd
}

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type codecJSON struct {
	ID           string   `json:"id"`
	Extension    string   `json:"extension"`
	VideoEncoder string   `json:"video_encoder,omitempty"`
	EncoderArgs  []string `json:"encoder_args"`
}

func newCodecsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "codecs",
		Short: "List codec profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := ctx.registry()
			if err != nil {
				return err
			}
			profiles := reg.Profiles()

			if jsonOut {
				items := make([]codecJSON, 0, len(profiles))
				for _, p := range profiles {
					items = append(items, codecJSON{
						ID:           p.ID,
						Extension:    p.Extension,
						VideoEncoder: p.VideoEncoder(),
						EncoderArgs:  p.EncoderArgs,
					})
				}
				return writeJSON(cmd, items)
			}

			tbl := newTable("Codec", "Extension", "Encoder", "Arguments")
			for _, p := range profiles {
				tbl.add(p.ID, p.Extension, p.VideoEncoder(), strings.Join(p.EncoderArgs, " "))
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.render())
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	return cmd
}

package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type resultJSON struct {
	OK       bool   `json:"ok"`
	Output   string `json:"output,omitempty"`
	Message  string `json:"message,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
	Error    string `json:"error,omitempty"`
	Verified *bool  `json:"verified,omitempty"`
}

type rungJSON struct {
	Index      int    `json:"index"`
	Resolution string `json:"resolution"`
	Bitrate    string `json:"bitrate"`
	resultJSON
}

type ladderJSON struct {
	RunID     string     `json:"run_id"`
	Input     string     `json:"input"`
	Codec     string     `json:"codec"`
	Succeeded int        `json:"succeeded"`
	Failed    int        `json:"failed"`
	ElapsedMS int64      `json:"elapsed_ms"`
	Rungs     []rungJSON `json:"rungs"`
}

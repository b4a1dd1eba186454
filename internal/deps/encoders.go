package deps

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"vidladder/internal/codec"
	"vidladder/internal/transcode"
)

// ListEncoders runs "<binary> -hide_banner -encoders" and returns the encoder
// names it reports.
func ListEncoders(ctx context.Context, runner transcode.Runner, binary string) (map[string]bool, error) {
	if runner == nil {
		runner = transcode.ExecRunner{}
	}
	out, err := runner.Run(ctx, []string{binary, "-hide_banner", "-encoders"})
	if err != nil {
		return nil, fmt.Errorf("list encoders: %w", err)
	}
	if out.ExitCode != 0 {
		return nil, fmt.Errorf("list encoders: %s exited with status %d: %s", binary, out.ExitCode, strings.TrimSpace(out.Stderr))
	}
	return parseEncoders(out.Stdout), nil
}

// parseEncoders reads ffmpeg's encoder table. Rows follow a "------"
// separator and start with a six-character capability field.
func parseEncoders(text string) map[string]bool {
	encoders := make(map[string]bool)
	scanner := bufio.NewScanner(strings.NewReader(text))
	inTable := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !inTable {
			inTable = strings.HasPrefix(line, "---")
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || len(fields[0]) != 6 {
			continue
		}
		encoders[fields[1]] = true
	}
	return encoders
}

// CheckEncoders reports, per codec profile, whether the transcoder was built
// with the profile's video encoder.
func CheckEncoders(ctx context.Context, runner transcode.Runner, binary string, reg *codec.Registry) []Status {
	profiles := reg.Profiles()
	results := make([]Status, 0, len(profiles))
	available, err := ListEncoders(ctx, runner, binary)
	for _, p := range profiles {
		encoder := p.VideoEncoder()
		status := Status{
			Name:        p.ID,
			Command:     encoder,
			Description: "Video encoder for " + p.Extension,
			Optional:    true,
		}
		switch {
		case err != nil:
			status.Detail = err.Error()
		case encoder == "":
			status.Available = true
			status.Detail = "profile does not name a video encoder"
		case available[encoder]:
			status.Available = true
		default:
			status.Detail = fmt.Sprintf("encoder %q not compiled into %s", encoder, binary)
		}
		results = append(results, status)
	}
	return results
}

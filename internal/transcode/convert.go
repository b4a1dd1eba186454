package transcode

import (
	"context"

	"vidladder/internal/services"
)

// Converter chains Build and Execute for a single conversion.
type Converter struct {
	Builder  *Builder
	Executor *Executor
}

// NewConverter pairs a builder with an executor.
func NewConverter(b *Builder, e *Executor) *Converter {
	return &Converter{Builder: b, Executor: e}
}

// Convert validates and builds req, then runs it. Validation failures are
// returned before any process is started.
func (c *Converter) Convert(ctx context.Context, req Request) (Result, error) {
	cmd, err := c.Builder.Build(req)
	if err != nil {
		return Result{}, err
	}
	return c.Run(ctx, cmd)
}

// Run executes a command that Build already produced.
func (c *Converter) Run(ctx context.Context, cmd Command) (Result, error) {
	ctx = services.WithCodec(ctx, cmd.Codec)
	return c.Executor.Execute(ctx, cmd)
}

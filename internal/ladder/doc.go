// Package ladder runs an encoding ladder: one transcode job per
// resolution/bitrate rung against a single input and codec.
//
// Rungs are independent. A failing rung is recorded at its index and the
// remaining rungs still run, so the result always has one entry per rung in
// rung order. With more than one worker, rungs run concurrently on an
// errgroup whose goroutines never return errors, which keeps a failure from
// cancelling siblings.
package ladder

// Package preflight provides readiness checks for the binaries and
// directories vidladder depends on.
//
// convert and ladder run RunAll before building any command so a missing
// ffmpeg or an unwritable output directory fails once, up front, instead of
// once per rung. The status command renders the same results.
package preflight

// Package logs reads the vidladder log file for the logs command.
//
// Last returns the final lines with bounded memory. Follow polls from an
// offset and hands each new line to a callback until the context ends.
package logs

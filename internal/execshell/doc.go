// Package execshell provides structured helpers for invoking external tools.
//
// ShellExecutor wraps a CommandRunner with zap logging and lifecycle observers and
// classifies every invocation as success, non-zero exit, spawn failure, or output
// decode failure. OSCommandRunner is the os/exec-backed runner, and BufferedPipe
// feeds the output of one command into another for small payloads.
package execshell

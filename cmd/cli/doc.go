// Package cli builds the laterem command-line interface: the Cobra root
// command, configuration loading, structured logging, and the wiring that
// turns a target and action into a workflow run.
package cli

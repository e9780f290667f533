// Package workflow maps a target and action onto an ordered list of external
// commands and runs them.
//
// The catalog fixes which target/action pairs exist and how their steps are
// built. Dispatcher executes a catalog workflow one step at a time and returns a
// RunReport describing how far the run progressed. Engine wraps the dispatcher
// with repository preflight and default-branch resolution.
package workflow

// Package ui renders workflow progress and results for the console.
//
// Styling is applied through lipgloss only when the destination is a
// terminal; piped output stays plain text.
package ui

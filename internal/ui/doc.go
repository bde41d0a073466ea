// Package ui provides terminal output formatting for grip.
//
// User-facing diagnostics go through a Printer bound to a writer, normally
// os.Stderr, so that commands can be tested against a buffer:
//
//	out := ui.New(os.Stderr)
//	out.Error("No cache to clear")
//	// Error: No cache to clear
//
//	out.Info("Running on %s", url)
//	out.Warn("Port %d is busy", 6419)
//
// Output styling:
//   - Error:   "Error:" in bold red
//   - Info:    * Cyan asterisk
//   - Success: ✔ Green checkmark
//   - Warn:    ○ Yellow circle
//
// Colors come from github.com/fatih/color. Each Printer decides on its own
// writer: output to a pipe or file stays plain even when stdout is a
// terminal, and NO_COLOR disables colors everywhere.
package ui

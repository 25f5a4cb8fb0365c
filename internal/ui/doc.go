// Package ui paints the status lines the CLI prints while a task runs.
//
// Tasks report progress as [tasks.ProgressUpdate] values on a channel. [Watch] drains that channel on its own
// goroutine and writes one styled line per update, so a slow terminal never blocks the task that produced it.
// Styles come from a lipgloss [Palette]; when the output is not a terminal lipgloss drops the colors.
package ui

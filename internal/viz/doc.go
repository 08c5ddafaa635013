// Package viz renders terminal output: lipgloss styles shared by the
// CLI, colored edge listings for causal graphs, recovery report
// formatting and a bubbletea view that follows a pipeline run live.
package viz

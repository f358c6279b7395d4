// Package driving holds the use-case interfaces the CLI, TUI, HTTP and
// MCP adapters call. internal/core/services implements them.
package driving

// Package parsers provides the registry that dispatches uploads to the
// format-specific Parser implementations by file extension.
//
// Parsers are registered with the Registry at startup. Each parser lives
// in its own sub-package (pdf, spreadsheet) and knows how to turn one
// family of formats into normalised text.
package parsers

// Package report renders comment analyses for display or machine consumption.
//
// Five formats are supported:
//   - text     human-readable terminal output (default)
//   - json     structured document
//   - yaml     the same document as YAML
//   - markdown summary tables and sample comments for pasting into an issue
//   - html     standalone page with sanitized, rendered comment bodies
//
// Use [GetWriter] to obtain a [Writer] for a format string, then call
// [Writer.Write] with an [io.Writer] and a [*model.Analysis].
package report

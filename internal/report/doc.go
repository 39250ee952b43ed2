// Package report renders analysis results for humans and machines.
//
// Writers share one interface so the CLI can emit markdown, JSON, or
// plain text to files, stdout, or both at once.
package report

// Package diag defines the diagnostic model produced for a checked document.
//
// A Diagnostic names one invalid region found by the search: its severity,
// a stable Code, a short human message and the primary line span. Notes point
// at secondary lines (the opener a stray `end` could belong to, the line an
// unmatched bracket was opened on).
//
// Package diag does no formatting or IO. Rendering lives in internal/diagfmt,
// orchestration in internal/driver.
package diag

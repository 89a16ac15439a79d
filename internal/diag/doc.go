// Package diag defines the diagnostic model shared by the loader, the parser
// and the lint rules.
//
// # Purpose
//
//   - Provide deterministic data structures that capture findings produced by
//     file loading, tree-sitter parsing, module binding and rule evaluation.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//
// # Scope
//
// Package diag does not perform formatting, IO or CLI integration. Rendering
// lives in internal/diagfmt; orchestration lives in internal/driver.
//
// # Data model
//
// Diagnostic is the central record. It contains:
//
//   - Severity: Info, Warning or Error (severity.go). Rule diagnostics take the
//     severity configured for the rule.
//   - Code: compact numeric identifier (codes.go) with a stable string form
//     such as LNT9001.
//   - Message: the rendered rule message.
//   - Primary span: the source.Span the finding is anchored at. For deprecated
//     props this is the attribute name or the spread argument.
//   - Rule: the producing rule name, empty for non-rule diagnostics.
//   - Notes: optional secondary spans, e.g. where the prop was deprecated.
//
// # Emitting diagnostics
//
// Producers use a Reporter. ReportBuilder (NewReportBuilder, ReportWarning, ...)
// chains WithNote / WithRule before Emit. BagReporter aggregates into a Bag,
// which supports limits, sorting, deduplication and filtering.
//
// Bag.Sort is stable, so diagnostics sharing a primary span (several
// deprecated members reached through one spread) keep their emission order.
package diag

// Package diag defines the diagnostic model shared by the manifest loader
// and the elaboration checks.
//
// # Scope
//
// Package diag does not perform any formatting or IO. Rendering lives in
// internal/diagfmt; the driver collects bags per entity and hands them to
// CLI commands.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – tri-level enum (Info, Warning, Error) defined in severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string form.
//   - Message – human oriented text; keep it short and actionable.
//   - Primary – a Location: manifest file plus dotted key path.
//   - Notes – optional secondary locations/messages.
//
// Producers go through a Reporter (usually BagReporter) via ReportError /
// ReportWarning / ReportInfo and Emit. Bag keeps a limit, sorts by location
// and deduplicates.
package diag

// Package diagnostic provides structured warnings, errors and notes produced
// while mapping payload keys to table columns.
//
// Key capabilities:
//   - Unmatched key warnings with the closest column names as suggestions
//   - Input errors reported alongside the mapping
//   - Human-readable rendering for CLI output
package diagnostic

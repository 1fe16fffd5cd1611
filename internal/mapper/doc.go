// Package mapper maps the keys of a JSON payload onto the columns of a SQL
// table.
//
// Each key is normalized and compared with every normalized column name. A
// fuzzy score above the cutoff accepts the best column immediately. Keys that
// fall short are retried by embedding similarity when semantic matching is
// enabled, and are otherwise reported as unmatched with the closest column
// names as suggestions.
package mapper

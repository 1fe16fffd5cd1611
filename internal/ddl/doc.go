// Package ddl extracts the column list of a table from a CREATE TABLE
// statement.
//
// Only the parenthesized column-definition block is interpreted; column types
// are carried through as raw text and no dialect validation is performed.
//
// Key functions:
//   - ExtractColumns: ordered column names of the first CREATE TABLE statement
//   - Parse: table name plus columns with their raw type text
//   - ParseWith: same, with a choice of comma splitting strategy
package ddl

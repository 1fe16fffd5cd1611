// Package report renders a mapping result as a text table, JSON or YAML.
package report

// Package match provides identifier normalization, fuzzy scoring, cosine
// similarity, and candidate ranking for mapping JSON keys onto table columns.
//
// Key functions:
//   - Normalize: converts an identifier into its snake_case comparison form
//   - WRatio: the default 0-100 fuzzy score, weighing whole-string, partial
//     and token comparisons
//   - Ratio: the plain 0-100 edit-distance similarity of two strings
//   - BestFuzzy / RankFuzzy: pick or rank the closest columns for a key
//   - Cosine / BestSemantic: compare embedding vectors
package match

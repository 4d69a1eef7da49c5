// Package bed reads and writes interval files in BED format.
//
// Only the first six columns (chrom, start, end, name, score, strand) are
// interpreted; further columns are ignored on input. Output is always BED6.
// Paths ending in .gz are transparently (de)compressed.
package bed

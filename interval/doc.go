/*Package interval defines the genomic interval record shared by the
  extraction and prediction pipelines, its total ordering, and named
  chromosome sets used to whitelist intervals.

  Coordinates are zero-based and half-open, as in BED files.
*/
package interval

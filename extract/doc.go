/*Package extract converts an alignment file into the fixed-width interval
  set consumed by the RBP binding models.

  An extraction runs the following stages, strictly in order:

    Loading      read intervals from the alignment, one chunk at a time
    Filtering    keep reads whose span lies strictly between 90 and 150 bases
    Normalizing  rewrite each read as the 101 base window at its start
    Deduping     drop intervals identical in every field
    Whitelisting drop intervals off the canonical chromosomes
    Writing      persist the surviving intervals as BED

  Loading and Filtering alternate per chunk, so peak memory is bounded by the
  chunk size plus the reads that pass the length filter. A failure in any
  stage aborts the extraction and removes the output file, including one
  left by an earlier run.
*/
package extract

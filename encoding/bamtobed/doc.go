/*Package bamtobed streams the aligned reads of a SAM or BAM file as BED
  intervals, one per mapped read, following the conventions of
  "bedtools bamtobed":

   - unmapped reads are skipped,
   - start is the 0-based leftmost aligned position and end is one past the
     last reference base consumed by the CIGAR,
   - name is the read name, suffixed with /1 or /2 for paired reads,
   - score is the mapping quality,
   - strand is '-' for reverse-complemented reads and '+' otherwise.

  Records are decoded by github.com/grailbio/hts; reads are returned in
  chunks so that callers never need to hold the whole file in memory.
*/
package bamtobed

package interval

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ChromosomeSet is a closed set of chromosome names.
type ChromosomeSet map[string]struct{}

// NewChromosomeSet creates a set containing the given names.
func NewChromosomeSet(names ...string) ChromosomeSet {
	s := make(ChromosomeSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// HumanChromosomes is the set of canonical human chromosomes: chr1..chr22,
// chrX and chrY. Mitochondrial, unplaced, random and alt contigs are absent.
var HumanChromosomes = humanChromosomes()

func humanChromosomes() ChromosomeSet {
	names := make([]string, 0, 24)
	for i := 1; i <= 22; i++ {
		names = append(names, fmt.Sprintf("chr%d", i))
	}
	names = append(names, "chrX", "chrY")
	return NewChromosomeSet(names...)
}

// Contains checks whether chrom is a member of the set.
func (s ChromosomeSet) Contains(chrom string) bool {
	_, ok := s[chrom]
	return ok
}

// Names returns the members of the set in lexicographic order.
func (s ChromosomeSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ReadChromosomeSet reads one chromosome name per line. Blank lines and lines
// starting with '#' are ignored; only the first whitespace-delimited token of
// a line is used, so a .fai or chrom.sizes file is also accepted.
func ReadChromosomeSet(r io.Reader) (ChromosomeSet, error) {
	s := ChromosomeSet{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		s[strings.Fields(line)[0]] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(s) == 0 {
		return nil, fmt.Errorf("interval.ReadChromosomeSet: no chromosome names found")
	}
	return s, nil
}

// Package genome loads FASTA-like reference files into the flat byte
// slices suffixindex.Build expects, concatenating multi-record files
// and recording each record's span so positions can be mapped back to
// their originating sequence — the same line-to-global-position
// bookkeeping this domain's tooling has always needed, grounded on
// xiles84-dnatools's genome-file loader.
package genome

import (
	"bufio"
	"bytes"
	"fmt"
	"strings"
)

// Record describes one named sequence's span within a Genome's
// concatenated Text.
type Record struct {
	Name  string
	Start int
	End   int
}

// Genome is a reference file loaded into memory: one flat byte slice
// suitable for suffixindex.Build, plus the record boundaries within
// it.
type Genome struct {
	Text    []byte
	Records []Record
}

// RecordAt returns the record containing global position pos, or
// false if pos lies outside every record. For Load's output, whose
// records are concatenated with no gaps, that happens only when pos is
// negative or at least len(Text); a hand-built Genome may also have
// gaps between records.
func (g *Genome) RecordAt(pos int) (Record, bool) {
	for _, r := range g.Records {
		if pos >= r.Start && pos < r.End {
			return r, true
		}
	}
	return Record{}, false
}

// Load reads a FASTA file (records introduced by a ">name" header
// line, sequence data on the following lines until the next header or
// EOF) and concatenates every record's sequence into one Genome.Text,
// uppercasing bytes as it goes. Blank lines are skipped. A file with
// no header lines is treated as a single unnamed record spanning the
// whole file.
func Load(r *bufio.Scanner) (*Genome, error) {
	g := &Genome{}
	var builder strings.Builder
	var curName string
	curStart := 0
	haveRecord := false

	flush := func() {
		if haveRecord {
			g.Records = append(g.Records, Record{Name: curName, Start: curStart, End: builder.Len()})
		}
	}

	for r.Scan() {
		line := strings.TrimSpace(r.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			curName = strings.TrimSpace(strings.TrimPrefix(line, ">"))
			curStart = builder.Len()
			haveRecord = true
			continue
		}
		if !haveRecord {
			curName = ""
			curStart = 0
			haveRecord = true
		}
		for i := 0; i < len(line); i++ {
			c := line[i]
			if c >= 'a' && c <= 'z' {
				c -= 'a' - 'A'
			}
			builder.WriteByte(c)
		}
	}
	if err := r.Err(); err != nil {
		return nil, fmt.Errorf("genome: reading input: %w", err)
	}
	flush()

	g.Text = []byte(builder.String())
	return g, nil
}

// LoadFile reads a FASTA file at path, preferring a read-only mmap
// view of the file over copying it into the heap when the platform
// supports it (see mmap_unix.go / mmap_other.go).
func LoadFile(path string) (*Genome, error) {
	data, unmap, err := mmapFile(path)
	if err != nil {
		return nil, fmt.Errorf("genome: loading %s: %w", path, err)
	}
	defer unmap()

	g, err := Load(bufio.NewScanner(bytes.NewReader(data)))
	if err != nil {
		return nil, fmt.Errorf("genome: loading %s: %w", path, err)
	}
	return g, nil
}

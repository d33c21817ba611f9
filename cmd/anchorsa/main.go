// Command anchorsa locates anchor motifs in a reference FASTA file
// and, optionally, enumerates near-matches of the window around each
// anchor against a second reference, allowing up to K substitutions.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/secondarymetabolites/anchorsa/anchor"
	"github.com/secondarymetabolites/anchorsa/genome"
	"github.com/secondarymetabolites/anchorsa/mismatch"
	"github.com/secondarymetabolites/anchorsa/suffixindex"
)

func main() {
	referenceFile := flag.String("f", "", "reference FASTA file to search")
	targetFile := flag.String("t", "", "target FASTA file for mismatch counting (defaults to -f)")
	pattern := flag.String("p", "", "anchor pattern to locate")
	dstart := flag.Int("dstart", 0, "window start offset relative to anchor (<= 0)")
	dend := flag.Int("dend", 0, "window end offset relative to anchor (<= 0, > dstart)")
	k := flag.Int("k", 0, "maximum substitutions to enumerate")
	threads := flag.Int("threads", 0, "worker count (0 = GOMAXPROCS)")
	flag.Parse()

	if *referenceFile == "" || *pattern == "" {
		fmt.Println("usage: anchorsa -f reference.fa -p PATTERN [-t target.fa] [-dstart N] [-dend N] [-k N]")
		os.Exit(1)
	}

	ref, err := genome.LoadFile(*referenceFile)
	if err != nil {
		fmt.Println("Error loading reference file:", err)
		os.Exit(1)
	}

	refIdx, err := suffixindex.Build(ref.Text)
	if err != nil {
		fmt.Println("Error indexing reference file:", err)
		os.Exit(1)
	}

	anchors := anchor.FindAnchors(refIdx, []byte(*pattern))
	fmt.Printf("found %d anchor(s) for %q\n", len(anchors), *pattern)
	for _, a := range anchors {
		fmt.Printf("  %d\n", a)
	}

	if *dend == 0 && *dstart == 0 {
		return
	}

	targetPath := *targetFile
	if targetPath == "" {
		targetPath = *referenceFile
	}
	target, err := genome.LoadFile(targetPath)
	if err != nil {
		fmt.Println("Error loading target file:", err)
		os.Exit(1)
	}

	targetIdx, err := suffixindex.Build(target.Text)
	if err != nil {
		fmt.Println("Error indexing target file:", err)
		os.Exit(1)
	}

	results, err := mismatch.FindRepeatCounts(context.Background(), mismatch.Config{
		AnchorIndex: refIdx,
		Anchors:     anchors,
		AnchorText:  []byte(*pattern),
		TargetIndex: targetIdx,
		DStart:      *dstart,
		DEnd:        *dend,
		K:           *k,
		Threads:     *threads,
	})
	if err != nil {
		fmt.Println("Error counting mismatches:", err)
		os.Exit(1)
	}

	fmt.Println("anchor\tcounts")
	for _, r := range results {
		counts := make([]string, len(r.Counts))
		for i, c := range r.Counts {
			counts[i] = fmt.Sprintf("%d", c)
		}
		fmt.Printf("%d\t%s\n", r.AnchorPos, strings.Join(counts, ","))
	}
}

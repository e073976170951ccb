// Command fit-inspect lists the exercise titles in a FIT file and how they
// would be blocked by the duplicate scanner.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/ripixel/fitglue-server/catalog/pkg/catalog"
	"github.com/ripixel/fitglue-server/catalog/pkg/dedupe"
)

// BlockStats counts the records sharing a block key.
type BlockStats struct {
	Key   dedupe.BlockKey
	Count int
}

// Pairs is the number of comparisons a scan makes inside the block.
func (bs *BlockStats) Pairs() int {
	return bs.Count * (bs.Count - 1) / 2
}

func main() {
	inputPath := flag.String("input", "", "Path to FIT file")
	muscle := flag.String("default-muscle-group", "", "Muscle group assigned to every title")
	infer := flag.Bool("infer-muscle-groups", false, "Infer muscle groups from exercise names")
	verbose := flag.Bool("detailed-dump", false, "Print every exercise title")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Please provide input file with -input")
		os.Exit(1)
	}

	data, err := os.ReadFile(*inputPath)
	if err != nil {
		fmt.Printf("Failed to read file: %v\n", err)
		os.Exit(1)
	}

	records, err := catalog.DecodeFIT(data, catalog.Options{DefaultMuscleGroup: *muscle, InferMuscleGroups: *infer})
	if err != nil {
		fmt.Printf("Failed to decode FIT file: %v\n", err)
		os.Exit(1)
	}

	stats := make(map[dedupe.BlockKey]*BlockStats)
	fmt.Println("Analyzing FIT file...")
	for _, rec := range records {
		if *verbose {
			fmt.Printf("Title %d: %q (slug %q, category %s)\n", rec.ID, rec.Name, rec.Slug, rec.Category)
		}
		key := rec.Key()
		s, ok := stats[key]
		if !ok {
			s = &BlockStats{Key: key}
			stats[key] = s
		}
		s.Count++
	}

	blocks := make([]*BlockStats, 0, len(stats))
	for _, s := range stats {
		blocks = append(blocks, s)
	}
	sort.Slice(blocks, func(i, j int) bool {
		return blocks[i].Key.String() < blocks[j].Key.String()
	})

	fmt.Printf("\nTotal Exercise Titles: %d\n", len(records))
	fmt.Println("\nBlocks:")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "Block\tTitles\tPairs")
	fmt.Fprintln(w, "-----\t------\t-----")
	for _, s := range blocks {
		fmt.Fprintf(w, "%s\t%d\t%d\n", s.Key.String(), s.Count, s.Pairs())
	}
	w.Flush()
}

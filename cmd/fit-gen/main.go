// Command fit-gen converts a JSON exercise catalog into a FIT workout file
// with one exercise title per record.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ripixel/fitglue-server/catalog/pkg/catalog"
	"github.com/ripixel/fitglue-server/catalog/pkg/domain/file_generators"
)

func main() {
	inputFile := flag.String("input", "", "Path to input JSON catalog")
	outputFile := flag.String("output", "catalog.fit", "Path to output FIT file")
	name := flag.String("name", "Exercise Catalog", "Workout name stored in the FIT file")
	flag.Parse()

	if *inputFile == "" {
		flag.Usage()
		os.Exit(1)
	}

	// 1. Read JSON
	data, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("Failed to read input file: %v", err)
	}

	// 2. Decode catalog
	records, err := catalog.DecodeJSON(data)
	if err != nil {
		log.Fatalf("Failed to parse catalog: %v", err)
	}

	// 3. Generate FIT
	fitData, err := file_generators.GenerateCatalogFitFile(*name, records, time.Now())
	if err != nil {
		log.Fatalf("Failed to generate FIT file: %v", err)
	}

	// 4. Write Output
	if err := os.WriteFile(*outputFile, fitData, 0644); err != nil {
		log.Fatalf("Failed to write output file: %v", err)
	}

	fmt.Printf("Successfully wrote %d exercises to %s (%d bytes)\n", len(records), *outputFile, len(fitData))
}

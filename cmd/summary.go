package main

import (
	"fmt"

	"github.com/directorycat/catalog-pipeline/internal/pipeline"
)

// printSummary prints the one-line {fetched, parsed, failed, skipped}
// summary §A.7 requires, and reports whether the command should exit
// non-zero: iff failed > 0 and --strict was passed.
func printSummary(c pipeline.Counts) (exitNonZero bool) {
	fmt.Printf("fetched=%d parsed=%d failed=%d skipped=%d\n", c.Fetched, c.Parsed, c.Failed, c.Skipped)
	return strict && c.Failed > 0
}

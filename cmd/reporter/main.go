package main

import (
	"flag"
	"log"

	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/pkg/logger"
	"github.com/Xingyu-Yang915/RepuTrade-Method/internal/report"
)

// reporter re-renders the analysis charts from an existing CSV output
// directory, without touching the ledger.
func main() {
	logger.Init("info")

	dir := flag.String("dir", "./out", "directory holding the simulation CSV output")
	participants := flag.Int("participants", 100, "total participant count for the default frequency chart")
	flag.Parse()

	snaps, defaults, rounds, err := report.LoadCSV(*dir)
	if err != nil {
		log.Fatalf("Failed to load CSV output: %v", err)
	}

	if err := report.RenderCharts(*dir, snaps, defaults, rounds, *participants); err != nil {
		log.Fatalf("Failed to render charts: %v", err)
	}
	logger.Info("Charts rendered", "dir", *dir)
}

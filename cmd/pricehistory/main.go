// Command pricehistory runs the scheduling/optimization core offline
// against a CSV price history and a synthetic battery roster, without a
// running server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Stippler/drone-hustle/internal/model"
	"github.com/Stippler/drone-hustle/internal/pricehistory"
)

func main() {
	dataPath := flag.String("data", "prices.csv", "Path to a seconds_since_midnight,price_eur_per_mwh CSV")
	outPath := flag.String("out", "results.csv", "Output CSV path")
	resolution := flag.Int("resolution", 900, "Slot resolution in seconds")
	slots := flag.Int("slots", 96, "Number of slots to plan over")
	batteries := flag.Int("batteries", 3, "Number of waiting batteries to seed")
	flag.Parse()

	rows, err := pricehistory.ReadPriceCSV(*dataPath)
	if err != nil {
		fail("reading price history", err)
	}

	waiting := make([]*model.Battery, 0, *batteries)
	for i := 0; i < *batteries; i++ {
		soc := 0.1 + 0.15*float64(i)
		b, err := model.NewBattery(i+1, soc, 5.0, 2000.0, *resolution)
		if err != nil {
			fail("constructing battery", err)
		}
		waiting = append(waiting, b)
	}

	demand := make([]int, *slots)
	for i := range demand {
		demand[i] = i / 4 // roughly one more battery demanded per hour
	}

	scenario := pricehistory.Scenario{
		ResolutionSeconds: *resolution,
		Batteries:         waiting,
		DemandCumulative:  demand,
	}

	result, summary, err := pricehistory.Run(rows, scenario)
	if err != nil {
		fail("running scenario", err)
	}

	if err := pricehistory.WriteResultCSV(*outPath, result); err != nil {
		fail("writing results", err)
	}
	fmt.Printf("wrote %d rows to %s\n", len(result), *outPath)
	fmt.Printf("price eur/mwh: min %.2f max %.2f mean %.2f p05 %.2f p95 %.2f\n",
		summary.Price.Min, summary.Price.Max, summary.Price.Mean, summary.Price.P05, summary.Price.P95)
	fmt.Printf("cost eur: optimized %s baseline %s savings %s\n",
		summary.Savings.OptimizedCost.StringFixed(6),
		summary.Savings.BaselineCost.StringFixed(6),
		summary.Savings.SavingsEUR.StringFixed(6))
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "pricehistory: %s: %v\n", step, err)
	os.Exit(1)
}

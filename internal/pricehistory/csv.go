// Package pricehistory runs the scheduling/optimization core offline
// against a CSV price history, the Go analogue of the reference
// implementation's CSV price-history exploration script. It never touches
// a live simulation.Simulation; it drives internal/schedule and
// internal/planner directly against a synthetic scenario.
package pricehistory

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// PriceRow is one input row: seconds-since-midnight and a price in
// EUR/MWh.
type PriceRow struct {
	SecondsSinceMidnight int
	PriceEURPerMWh       float64
}

// ReadPriceCSV reads rows of "seconds_since_midnight,price_eur_per_mwh"
// from path, skipping a header row if present.
func ReadPriceCSV(path string) ([]PriceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening price history: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading price history: %w", err)
	}

	var rows []PriceRow
	for i, rec := range records {
		if len(rec) < 2 {
			continue
		}
		seconds, err := strconv.Atoi(rec[0])
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("row %d: invalid seconds_since_midnight: %w", i, err)
		}
		price, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid price: %w", i, err)
		}
		rows = append(rows, PriceRow{SecondsSinceMidnight: seconds, PriceEURPerMWh: price})
	}
	return rows, nil
}

// ResultRow is one output row of the offline run: the slot index, its
// price, and the optimized/baseline assignment and load/cost for that slot.
type ResultRow struct {
	Slot         int
	PriceEURPerMWh float64
	OptimizedID  int
	BaselineID   int
	LoadWatt     float64
	CostEUR      float64
}

// WriteResultCSV writes rows to path.
func WriteResultCSV(path string, rows []ResultRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating result csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"slot", "price_eur_per_mwh", "optimized_id", "baseline_id", "load_watt", "cost_eur"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Slot),
			fmtFloat(r.PriceEURPerMWh),
			strconv.Itoa(r.OptimizedID),
			strconv.Itoa(r.BaselineID),
			fmtFloat(r.LoadWatt),
			fmtFloat(r.CostEUR),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}

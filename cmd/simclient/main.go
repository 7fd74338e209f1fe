// Command simclient drives a running server end to end over its control
// API: it registers a few batteries, files a charge request, exchanges a
// depleted battery back in, and prints the resulting visualisation.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "base URL of a running server")
	droneID := flag.String("drone-id", "drone-1", "drone id used for the charge request/exchange")
	count := flag.Int("batteries", 3, "number of batteries to seed")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	for i := 0; i < *count; i++ {
		soc := 0.2 + 0.1*float64(i)
		body := map[string]any{
			"battery_id":      fmt.Sprintf("b-%d", i+1),
			"state_of_charge": soc,
			"capacity_kwh":    5.0,
			"max_power_watt":  2000.0,
		}
		var resp map[string]any
		if err := post(client, *addr+"/battery", body, &resp); err != nil {
			fail("creating battery", err)
		}
		fmt.Printf("created battery %v (soc=%.2f)\n", resp["id"], soc)
	}

	var chargeResp map[string]any
	chargeBody := map[string]any{
		"drone_id":          *droneID,
		"state_of_charge":   0.15,
		"capacity_kwh":      5.0,
		"max_power_watt":    2000.0,
		"delta_eta_seconds": 120,
		"force":             false,
	}
	if err := post(client, *addr+"/charge-request", chargeBody, &chargeResp); err != nil {
		fail("posting charge request", err)
	}
	fmt.Printf("charge request: %v\n", chargeResp["message"])

	var exchangeResp map[string]any
	exchangeBody := map[string]any{
		"drone_id":        *droneID,
		"state_of_charge": 0.15,
	}
	if err := put(client, *addr+"/exchange", exchangeBody, &exchangeResp); err != nil {
		fail("exchanging battery", err)
	}
	fmt.Printf("exchanged: received battery %v at soc=%.2f\n", exchangeResp["id"], exchangeResp["soc"])

	var completedResp map[string]any
	if err := put(client, *addr+"/exchange-completed", map[string]any{"drone_id": *droneID}, &completedResp); err != nil {
		fail("acknowledging exchange completion", err)
	}

	var vis map[string]any
	if err := get(client, *addr+"/visualisation", &vis); err != nil {
		fail("fetching visualisation", err)
	}
	pretty, _ := json.MarshalIndent(vis, "", "  ")
	fmt.Println(string(pretty))
}

func post(client *http.Client, url string, body, out any) error {
	return do(client, http.MethodPost, url, body, out)
}

func put(client *http.Client, url string, body, out any) error {
	return do(client, http.MethodPut, url, body, out)
}

func get(client *http.Client, url string, out any) error {
	return do(client, http.MethodGet, url, nil, out)
}

func do(client *http.Client, method, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s %s: status %d", method, url, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func fail(step string, err error) {
	fmt.Fprintf(os.Stderr, "simclient: %s: %v\n", step, err)
	os.Exit(1)
}

package fracwatch

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	Ft "github.com/trsch/fracwatch/types"
)

const (
	webTimeout = 10 * time.Second

	headerDate  = "YYYY/MM/DD"
	headerClock = "HH:MM:SS"
)

// headerChannels maps EDR export column headers to canonical
// channel names. Unrecognized columns are ignored.
var headerChannels = map[string]string{
	"Rate Of Penetration (ft_per_hr)": Ft.ChanROP,
	"Weight on Bit (klbs)":            Ft.ChanWOB,
	"Rotary RPM (RPM)":                Ft.ChanRPM,
	"Hole Depth (feet)":               Ft.ChanDepth,
	"Block Velocity (ft_per_hr)":      Ft.ChanBlockVelocity,
	"AutoDriller WOB SP (klbs)":       Ft.ChanWOBSetpoint,
}

type HTTPClient interface {
	Get(string) (*http.Response, error)
}

// Shared HTTP Client
var sharedHTTPClient = &http.Client{
	Timeout: webTimeout,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,
	},
}

// FetchTableWithClient handles the messy business of the HTTP
// connection and is testable with dependency injection, called by
// FetchTable.
func FetchTableWithClient(url string, c HTTPClient) ([]Record, error) {
	resp, err := c.Get(url)
	if err != nil {
		slog.Error("Fetch Error", slog.Any("Error", err))
		return nil, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("Close Error", slog.Any("Error", err))
			return
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Could not read body", slog.Any("Error", err))
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("table fetch returned status %d", resp.StatusCode)
	}

	return ParseTable(bytes.NewReader(body))
}

// FetchTable retrieves an EDR table export over HTTP.
// This uses a Shared HTTP Client:
// - to reuse existing endpoint connections
// - to avoid stale connections that eat up OS FDs
func FetchTable(url string) ([]Record, error) {
	return FetchTableWithClient(url, sharedHTTPClient)
}

// ReadTableFile loads an EDR table export from local disk.
func ReadTableFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		slog.Error("Could not open table", slog.Any("Error", err))
		return nil, err
	}
	defer f.Close()
	return ParseTable(f)
}

// ParseTable reads a comma-separated EDR export into raw records.
// The header row names the columns; date and clock columns are kept
// as strings for the normalizer, everything recognized is parsed as
// a float. Rows with an unparseable numeric field are skipped with a
// warning rather than aborting the whole table.
func ParseTable(r io.Reader) ([]Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		slog.Error("Could not read table header", slog.Any("Error", err))
		return nil, fmt.Errorf("table header: %w", err)
	}

	dateCol, clockCol := -1, -1
	chanCols := make(map[int]string)
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch h {
		case headerDate:
			dateCol = i
		case headerClock:
			clockCol = i
		default:
			if ch, ok := headerChannels[h]; ok {
				chanCols[i] = ch
			}
		}
	}

	if dateCol < 0 || clockCol < 0 {
		return nil, fmt.Errorf("table is missing the %s / %s columns", headerDate, headerClock)
	}

	var records []Record
	for row := 1; ; row++ {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			slog.Error("Problem scanning input", slog.Any("Error", err))
			return nil, fmt.Errorf("scanning error: %w", err)
		}

		rec := Record{
			Date:   strings.TrimSpace(fields[dateCol]),
			Clock:  strings.TrimSpace(fields[clockCol]),
			Values: make(map[string]float64, len(chanCols)),
		}

		bad := false
		for i, ch := range chanCols {
			v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
			if err != nil {
				slog.Error("WARNING: Invalid value",
					slog.Int("row", row),
					slog.String("channel", ch))
				bad = true
				break
			}
			rec.Values[ch] = v
		}
		if bad {
			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

// FilterDepthBand keeps only the rows drilled inside the hole-depth
// band of interest, both edges inclusive.
func FilterDepthBand(records []Record, min, max float64) []Record {
	out := make([]Record, 0, len(records))
	for _, rec := range records {
		d, ok := rec.Values[Ft.ChanDepth]
		if !ok {
			continue
		}
		if d >= min && d <= max {
			out = append(out, rec)
		}
	}
	return out
}

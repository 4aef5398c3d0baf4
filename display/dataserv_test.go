package fracwatch_test

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	Fd "github.com/trsch/fracwatch/display"
	Fe "github.com/trsch/fracwatch/engine"
	Ft "github.com/trsch/fracwatch/types"
)

// A small finished analysis to serve: constant drilling with one
// spike that lands in the Red band.
func makeView(t testing.TB) *Fd.View {
	t.Helper()

	base := time.Date(2024, 10, 12, 6, 0, 0, 0, time.UTC)
	rops := []float64{10, 10, 10, 10, 10, 10, 60, 60}
	records := make([]Fe.Record, len(rops))
	for i, rop := range rops {
		ts := base.Add(time.Duration(i) * time.Second)
		records[i] = Fe.Record{
			Date:  ts.Format("2006/01/02"),
			Clock: ts.Format("15:04:05"),
			Values: map[string]float64{
				Ft.ChanROP:   rop,
				Ft.ChanWOB:   21,
				Ft.ChanRPM:   60,
				Ft.ChanDepth: 4200 + float64(i),
			},
		}
	}

	s, err := Fe.NewSeries(records)
	if err != nil {
		t.Fatalf("could not build series: %v", err)
	}

	cfg := &Fe.ConfigFile{Warmup: 1}
	cfg.FillDefaults()

	a, err := Fe.NewAnalysis(s, cfg)
	if err != nil {
		t.Fatalf("could not run analysis: %v", err)
	}

	session := Fe.NewReplaySession(a, cfg.Windows(), 2*time.Second)
	return Fd.NewView(session)
}

func TestVersionHandler(t *testing.T) {
	v := makeView(t)
	server := httptest.NewServer(v.SetupMux())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/version")
	if err != nil {
		t.Fatalf("could not GET version: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("could not decode version: %v", err)
	}
	if body["version"] == "" {
		t.Error("version missing from response")
	}
}

func TestSnapshotHandler(t *testing.T) {
	v := makeView(t)
	server := httptest.NewServer(v.SetupMux())
	defer server.Close()

	// Run a few ticks so there is something to see
	for i := 0; i < 4; i++ {
		v.Tick()
	}

	resp, err := http.Get(server.URL + "/api/snapshot")
	if err != nil {
		t.Fatalf("could not GET snapshot: %v", err)
	}
	defer resp.Body.Close()

	var snap Fd.SnapshotData
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		t.Fatalf("could not decode snapshot: %v", err)
	}
	if snap.Index != 3 {
		t.Errorf("Index = %d, want 3", snap.Index)
	}
	if snap.Level != "green" {
		t.Errorf("Level = %s, want green", snap.Level)
	}
	if snap.Derivative == nil {
		t.Error("want a defined derivative after four ticks")
	}
}

func TestSnapshotWire(t *testing.T) {
	// An undefined reading must reach the wire as null, never NaN
	wire := Fd.SnapshotWire(Ft.Snapshot{
		Level:         Ft.SeverityUndefined,
		Derivative:    math.NaN(),
		BlockVelDeriv: math.NaN(),
		RollingRef:    math.NaN(),
	})
	if wire.Derivative != nil || wire.BlockVelDeriv != nil || wire.RollingRef != nil {
		t.Error("undefined readings should be nil on the wire")
	}
	if _, err := json.Marshal(wire); err != nil {
		t.Errorf("wire form failed to marshal: %v", err)
	}
	if wire.Level != "undefined" {
		t.Errorf("Level = %s, want undefined", wire.Level)
	}
}

func TestFracturePointsHandler(t *testing.T) {
	v := makeView(t)
	server := httptest.NewServer(v.SetupMux())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/fracture-points")
	if err != nil {
		t.Fatalf("could not GET report: %v", err)
	}
	defer resp.Body.Close()

	var report []Fd.FracturePointData
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("could not decode report: %v", err)
	}
	if len(report) == 0 {
		t.Fatal("expected report rows from the Red spike")
	}

	sawRed := false
	for _, row := range report {
		if row.Level == "red" {
			sawRed = true
		}
		if row.Level == "unclassified" || row.Level == "undefined" {
			t.Errorf("report leaked a %s row", row.Level)
		}
	}
	if !sawRed {
		t.Error("expected a red row in the report")
	}

	t.Run("Rejects a bad since parameter", func(t *testing.T) {
		v.Output = stubOutput{}
		resp, err := http.Get(server.URL + "/api/fracture-points?since=yesterday")
		if err != nil {
			t.Fatalf("could not GET report: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

// stubOutput satisfies OutputAdapter without a database
type stubOutput struct{}

func (stubOutput) WritePoint(*Ft.FracturePoint) error { return nil }
func (stubOutput) WriteBatch([]*Ft.FracturePoint) error { return nil }
func (stubOutput) Flush() error { return nil }
func (stubOutput) Close() error { return nil }
func (stubOutput) Type() string { return "stub" }
func (stubOutput) QueryRange(start, end time.Time) ([]*Ft.FracturePoint, error) {
	return nil, nil
}

func TestStatsMiddleware(t *testing.T) {
	v := makeView(t)
	server := httptest.NewServer(v.SetupMux())
	defer server.Close()

	for i := 0; i < 3; i++ {
		resp, err := http.Get(server.URL + "/api/version")
		if err != nil {
			t.Fatalf("could not GET version: %v", err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("could not GET metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("could not read metrics: %v", err)
	}

	want := `fracwatch_http_requests_total{method="GET",status="200"} 3`
	if !strings.Contains(string(body), want) {
		t.Errorf("request counter missing from metrics, want %q", want)
	}
}

func TestSeverityToString(t *testing.T) {
	cases := map[Ft.SeverityLevel]string{
		Ft.SeverityGreen:        "green",
		Ft.SeverityYellow:       "yellow",
		Ft.SeverityOrange:       "orange",
		Ft.SeverityRed:          "red",
		Ft.SeverityUnclassified: "unclassified",
		Ft.SeverityUndefined:    "undefined",
	}
	for level, want := range cases {
		if got := Fd.SeverityToString(level); got != want {
			t.Errorf("SeverityToString(%d) = %s, want %s", level, got, want)
		}
	}
}

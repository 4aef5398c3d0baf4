package fracwatch

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	Fe "github.com/trsch/fracwatch/engine"
	Fo "github.com/trsch/fracwatch/obvy"
	"github.com/trsch/fracwatch/plugin"
	Ft "github.com/trsch/fracwatch/types"
)

// View is the read-only projection of one replay session that the
// data-serving surface exposes. The core never draws anything; a
// front end consumes these endpoints.
type View struct {
	MU         sync.RWMutex
	Session    *Fe.ReplaySession
	Stats      *Fo.StatsInternal // Internal status for prometheus
	Output     plugin.OutputAdapter
	Pub        *Publisher
	Supervisor *ReplaySupervisor
	server     *http.Server
	last       Ft.Snapshot
}

// NewView wraps a replay session for serving.
func NewView(session *Fe.ReplaySession) *View {
	return &View{
		Session: session,
		Stats:   Fo.NewStatsInternal(),
	}
}

// SetupMux handles all data serving:
// - Prometheus metric endpoint
// - Websocket snapshot stream for the UI
// - Version for programmatic use
// - Current snapshot and the fracture-points report
func (v *View) SetupMux() *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", v.Stats.Handler())
	r.HandleFunc("/ws", v.WebsocketHandler)

	// The API routes live on the subrouter so every request
	// passes through the stats middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(v.StatsMiddleware)
	api.HandleFunc("/version", v.VersionHandler)
	api.HandleFunc("/snapshot", v.SnapshotHandler)
	api.HandleFunc("/fracture-points", v.FracturePointsHandler)

	return r
}

var Version = "dev"

func (v *View) VersionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"version": Version})
}

// SnapshotHandler serves the most recent per-tick snapshot.
func (v *View) SnapshotHandler(w http.ResponseWriter, r *http.Request) {
	v.MU.RLock()
	snap := v.last
	v.MU.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SnapshotWire(snap))
}

// SnapshotData is the wire form of one per-tick snapshot. Undefined
// readings become null pointers here because the JSON encoder
// rejects NaN outright.
type SnapshotData struct {
	Index         int       `json:"index"`
	ViewStart     int       `json:"viewStart"`
	Timestamp     time.Time `json:"timestamp"`
	Level         string    `json:"level"`
	Derivative    *float64  `json:"derivative"`
	BlockVelDeriv *float64  `json:"blockVelDeriv"`
	RollingRef    *float64  `json:"rollingRef"`
	WindowActive  bool      `json:"windowActive"`
	WindowSeconds float64   `json:"windowSeconds"`
	AlertFired    bool      `json:"alertFired"`
	Done          bool      `json:"done"`
}

// SnapshotWire projects a snapshot onto its wire form.
func SnapshotWire(snap Ft.Snapshot) SnapshotData {
	return SnapshotData{
		Index:         snap.Index,
		ViewStart:     snap.ViewStart,
		Timestamp:     snap.Timestamp,
		Level:         SeverityToString(snap.Level),
		Derivative:    wireFloat(snap.Derivative),
		BlockVelDeriv: wireFloat(snap.BlockVelDeriv),
		RollingRef:    wireFloat(snap.RollingRef),
		WindowActive:  snap.WindowActive,
		WindowSeconds: snap.WindowSeconds,
		AlertFired:    snap.AlertFired,
		Done:          snap.Done,
	}
}

func wireFloat(v float64) *float64 {
	if !Fe.Defined(v) {
		return nil
	}
	return &v
}

// FracturePointData is the wire form of one report row.
type FracturePointData struct {
	Timestamp  time.Time `json:"timestamp"`
	Depth      float64   `json:"depth"`
	Derivative float64   `json:"derivative"`
	Level      string    `json:"level"`
}

// FracturePointsHandler serves every sample classified Yellow or
// above. With ?since=RFC3339 and a configured output sink, the rows
// come from storage instead of the in-memory analysis.
func (v *View) FracturePointsHandler(w http.ResponseWriter, r *http.Request) {
	var points []Ft.FracturePoint

	since := r.URL.Query().Get("since")
	if since != "" && v.Output != nil {
		start, err := time.Parse(time.RFC3339, since)
		if err != nil {
			http.Error(w, "bad since parameter", http.StatusBadRequest)
			return
		}
		stored, err := v.Output.QueryRange(start, time.Now())
		if err != nil {
			http.Error(w, "report query failed", http.StatusInternalServerError)
			return
		}
		for _, p := range stored {
			points = append(points, *p)
		}
	} else {
		points = v.Session.Analysis.FracturePoints()
	}

	out := make([]FracturePointData, 0, len(points))
	for _, p := range points {
		out = append(out, FracturePointData{
			Timestamp:  p.Timestamp,
			Depth:      p.Depth,
			Derivative: p.Derivative,
			Level:      SeverityToString(p.Level),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// SeverityToString names a level for the wire and the report.
func SeverityToString(level Ft.SeverityLevel) string {
	switch level {
	case Ft.SeverityGreen:
		return "green"
	case Ft.SeverityYellow:
		return "yellow"
	case Ft.SeverityOrange:
		return "orange"
	case Ft.SeverityRed:
		return "red"
	case Ft.SeverityUnclassified:
		return "unclassified"
	default:
		return "undefined"
	}
}

// RespWriter is a wrapper with StatsMiddleware, used for Prometheus
type RespWriter struct {
	http.ResponseWriter
	Status int
}

// WriteHeader is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) WriteHeader(status int) {
	w.Status = status
	w.ResponseWriter.WriteHeader(status)
}

// Write is a helper for StatsMiddleware, used for Prometheus
func (w *RespWriter) Write(b []byte) (int, error) {
	return w.ResponseWriter.Write(b)
}

func (v *View) StatsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &RespWriter{
			ResponseWriter: w,
			Status:         200,
		}
		next.ServeHTTP(wrapped, r)

		v.Stats.RecWWW(strconv.Itoa(wrapped.Status), r.Method)
	})
}

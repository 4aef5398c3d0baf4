package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	Fd "github.com/trsch/fracwatch/display"
	Fe "github.com/trsch/fracwatch/engine"
	Fo "github.com/trsch/fracwatch/obvy"
	"github.com/trsch/fracwatch/plugin"
	Ft "github.com/trsch/fracwatch/types"
)

func main() {
	ctx := context.Background()

	rc, err := Fe.LoadRuntimeConfig(ctx)
	if err != nil {
		panic("Failed to read environment")
	}

	fmt.Printf("Fracwatch initializing for ... %s\n", Fe.FillEnvVar("USER"))

	if rc.OTelEnable {
		shutdown, err := Fo.InitOTelHNY()
		if err != nil {
			slog.Error("Could not configure tracing", slog.Any("Error", err))
		} else {
			defer shutdown()
		}
	}

	cfg, err := Fe.LoadConfigFileName(rc.ConfigPath)
	if err != nil {
		slog.Error("Could not load config", slog.Any("Error", err))
		panic("Failed to load config")
	}

	// The EDR table comes from disk or over HTTP
	var records []Fe.Record
	if strings.HasPrefix(cfg.Source, "http://") || strings.HasPrefix(cfg.Source, "https://") {
		records, err = Fe.FetchTable(cfg.Source)
	} else {
		records, err = Fe.ReadTableFile(cfg.Source)
	}
	if err != nil {
		slog.Error("Could not ingest table", slog.Any("Error", err))
		panic("Failed to ingest telemetry table")
	}

	records = Fe.FilterDepthBand(records, cfg.DepthMin, cfg.DepthMax)

	series, err := Fe.NewSeries(records)
	if err != nil {
		slog.Error("Could not build series", slog.Any("Error", err))
		panic("Failed to build telemetry series")
	}

	analysis, err := Fe.NewAnalysis(series, cfg)
	if err != nil {
		slog.Error("Could not run analysis", slog.Any("Error", err))
		panic("Failed to run analysis")
	}

	sustain := time.Duration(cfg.SustainSecs * float64(time.Second))
	session := Fe.NewReplaySession(analysis, cfg.Windows(), sustain)
	view := Fd.NewView(session)

	// Optional report sink
	if rc.BadgerPath != "" {
		out, err := plugin.OutputLookup("badgerdb", rc.BadgerPath, 64)
		if err != nil {
			slog.Error("Could not open report sink", slog.Any("Error", err))
		} else {
			defer out.Close()
			view.Output = out
			persistReport(out, analysis.FracturePoints())
		}
	}

	// Optional NATS publisher
	if rc.NatsURL != "" {
		pub, err := Fd.NewPublisher(rc.NatsURL)
		if err != nil {
			slog.Error("Could not connect to NATS", slog.Any("Error", err))
		} else {
			defer pub.Close()
			view.Pub = pub
		}
	}

	if err := Fd.StartDataServ(view, rc.BindAddr); err != nil {
		slog.Error("Problem running data endpoint", slog.Any("Error", err))
		panic("Failed to serve")
	}
}

func persistReport(out plugin.OutputAdapter, points []Ft.FracturePoint) {
	batch := make([]*Ft.FracturePoint, len(points))
	for i := range points {
		batch[i] = &points[i]
	}
	if err := out.WriteBatch(batch); err != nil {
		slog.Error("Could not persist fracture points", slog.Any("Error", err))
		return
	}
	slog.Info("Fracture points persisted", slog.Int("count", len(batch)))
}

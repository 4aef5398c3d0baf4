package plugin_test

import (
	"testing"
	"time"

	"github.com/trsch/fracwatch/plugin"
	Ft "github.com/trsch/fracwatch/types"
)

func makePoint(offset time.Duration, level Ft.SeverityLevel) *Ft.FracturePoint {
	base := time.Date(2024, 10, 12, 6, 0, 0, 0, time.UTC)
	return &Ft.FracturePoint{
		Timestamp:  base.Add(offset),
		Depth:      4200,
		Derivative: 4.2,
		Level:      level,
	}
}

func TestBadgerOutput(t *testing.T) {
	bo, err := plugin.NewBadgerOutput(t.TempDir(), 2)
	if err != nil {
		t.Fatalf("could not open output: %v", err)
	}
	defer bo.Close()

	t.Run("WritePoint buffers until batch size", func(t *testing.T) {
		if err := bo.WritePoint(makePoint(0, Ft.SeverityYellow)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if len(bo.Buffer) != 1 {
			t.Errorf("buffer size = %d, want 1", len(bo.Buffer))
		}

		// Second write reaches batch size and flushes
		if err := bo.WritePoint(makePoint(time.Second, Ft.SeverityRed)); err != nil {
			t.Fatalf("write failed: %v", err)
		}
		if len(bo.Buffer) != 0 {
			t.Errorf("buffer size = %d, want 0 after flush", len(bo.Buffer))
		}
	})

	t.Run("QueryRange filters by time", func(t *testing.T) {
		base := time.Date(2024, 10, 12, 6, 0, 0, 0, time.UTC)

		got, err := bo.QueryRange(base.Add(-time.Minute), base.Add(time.Minute))
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len = %d, want 2", len(got))
		}

		// A window missing both points
		got, err = bo.QueryRange(base.Add(time.Hour), base.Add(2*time.Hour))
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}
		if len(got) != 0 {
			t.Errorf("len = %d, want 0", len(got))
		}
	})

	t.Run("Severity survives the round trip", func(t *testing.T) {
		base := time.Date(2024, 10, 12, 6, 0, 0, 0, time.UTC)
		got, err := bo.QueryRange(base.Add(-time.Minute), base.Add(time.Minute))
		if err != nil {
			t.Fatalf("query failed: %v", err)
		}

		sawRed := false
		for _, p := range got {
			if p.Level == Ft.SeverityRed {
				sawRed = true
			}
		}
		if !sawRed {
			t.Error("red point lost in storage")
		}
	})
}

func TestPointCodec(t *testing.T) {
	in := makePoint(0, Ft.SeverityOrange)

	out, err := plugin.PointDecode(plugin.PointEncode(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !out.Timestamp.Equal(in.Timestamp) || out.Level != in.Level {
		t.Errorf("got %+v, want %+v", out, in)
	}
}

func TestOutputLookup(t *testing.T) {
	t.Run("Resolves the badger output", func(t *testing.T) {
		out, err := plugin.OutputLookup("badgerdb", t.TempDir(), 8)
		if err != nil {
			t.Fatalf("lookup failed: %v", err)
		}
		defer out.Close()

		if out.Type() != "BadgerDB" {
			t.Errorf("Type = %s, want BadgerDB", out.Type())
		}
	})

	t.Run("Rejects an unknown output", func(t *testing.T) {
		_, err := plugin.OutputLookup("etcd", t.TempDir(), 8)
		if err == nil {
			t.Error("wanted an error but got none")
		}
	})
}

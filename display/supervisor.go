package fracwatch

import (
	"log/slog"
	"sync"
	"time"

	Ft "github.com/trsch/fracwatch/types"
)

type ReplaySupervisor struct {
	View     *View
	Ticker   *time.Ticker
	StopChan chan struct{}
	WG       sync.WaitGroup
}

// NewReplaySupervisor is a wrapper around the View that manages the
// replay tick goroutine. They are strongly coupled, one knows about
// the other.
func (v *View) NewReplaySupervisor() *ReplaySupervisor {
	rs := &ReplaySupervisor{
		View: v,
	}
	v.Supervisor = rs
	return rs
}

// Tick consumes one replay advance and fans the snapshot out to
// stats, the websocket view, and the optional publishers. Each call
// runs to completion before the next tick fires.
func (v *View) Tick() Ft.Snapshot {
	snap := v.Session.Advance()

	v.MU.Lock()
	v.last = snap
	v.MU.Unlock()

	if snap.Done {
		return snap
	}

	v.Stats.RecTick(int(snap.Level), snap.Derivative)

	if v.Pub != nil {
		if err := v.Pub.PublishSnapshot(snap); err != nil {
			slog.Error("Could not publish snapshot", slog.Any("Error", err))
		}
	}

	if snap.AlertFired {
		v.Stats.RecAlert()
		slog.Info("Sustained fracture alert",
			slog.Time("at", snap.Timestamp),
			slog.Float64("derivative", snap.Derivative))

		if v.Pub != nil {
			if err := v.Pub.PublishAlert(snap); err != nil {
				slog.Error("Could not publish alert", slog.Any("Error", err))
			}
		}
	}

	return snap
}

// Start the ReplaySupervisor. The goroutine exits on its own when
// the session is exhausted.
func (rs *ReplaySupervisor) Start() {
	rs.StopChan = make(chan struct{})
	rs.Ticker = time.NewTicker(1 * time.Second)

	rs.WG.Add(1)
	go func() {
		defer rs.WG.Done()
		defer rs.Ticker.Stop()

		for {
			select {
			case <-rs.Ticker.C:
				if snap := rs.View.Tick(); snap.Done {
					slog.Info("Replay exhausted", slog.Int("samples", snap.Index))
					return
				}
			case <-rs.StopChan:
				return
			}
		}
	}()
}

// Stop the ReplaySupervisor
func (rs *ReplaySupervisor) Stop() {
	if rs.StopChan != nil {
		close(rs.StopChan)
		rs.WG.Wait()
	}
}

// Restart the ReplaySupervisor
func (rs *ReplaySupervisor) Restart() {
	rs.Stop()
	rs.Start()
}

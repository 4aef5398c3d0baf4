package fracwatch

import (
	"log/slog"
	"math"

	Ft "github.com/trsch/fracwatch/types"
)

// Analysis holds one fully processed telemetry run: the segmented
// Series plus every derived channel, computed eagerly before replay
// begins. All of it is read-only once built; only the ReplaySession
// that walks it carries mutable state.
type Analysis struct {
	Series     *Series
	RopDeriv   []float64 // d(ROP)/dt over the elapsed axis
	BlockVel   []float64 // ramp-corrected block velocity, nil without the column
	BlockDeriv []float64 // derivative of the corrected block velocity
	RollingRef []float64 // trailing-mean ROP reference
	AuxDev     []float64 // |WOB - setpoint|, nil without the setpoint column
	Classes    []Ft.Classification
	Policy     Policy
}

// NewAnalysis runs the whole pipeline over a normalized Series:
// segmentation, derivatives, detrending, rolling reference,
// classification. Pure transforms, no replay-cursor dependency.
func NewAnalysis(s *Series, cfg *ConfigFile) (*Analysis, error) {
	seg := Segment(s, cfg.Warmup)
	slog.Info("Segmented drilling periods",
		slog.Int("input", s.Len()),
		slog.Int("kept", seg.Len()))

	policy, err := PolicyLookup(cfg.Policy, cfg.Thresholds())
	if err != nil {
		slog.Error("Could not resolve policy", slog.Any("Error", err))
		return nil, err
	}

	a := &Analysis{
		Series: seg,
		Policy: policy,
	}

	rop := seg.Channel(Ft.ChanROP)
	a.RopDeriv = Gradient(rop, seg.Seconds)
	a.RollingRef = RollingMean(rop, cfg.RollingWin)

	if seg.HasChannel(Ft.ChanBlockVelocity) {
		a.BlockVel = Detrend(seg.Channel(Ft.ChanBlockVelocity), cfg.FreqCutoff)
		a.BlockDeriv = Gradient(a.BlockVel, seg.Seconds)
	}

	if seg.HasChannel(Ft.ChanWOBSetpoint) {
		wob := seg.Channel(Ft.ChanWOB)
		sp := seg.Channel(Ft.ChanWOBSetpoint)
		a.AuxDev = make([]float64, seg.Len())
		for i := range a.AuxDev {
			a.AuxDev[i] = math.Abs(wob[i] - sp[i])
		}
	}

	a.Classes = Classify(policy, a.RopDeriv, a.AuxDev)

	return a, nil
}

// FracturePoints reports every sample classified Yellow or above,
// with the depth and derivative that flagged it. Undefined and
// Unclassified samples are filtered out here, not upstream, so the
// full classification record stays inspectable.
func (a *Analysis) FracturePoints() []Ft.FracturePoint {
	depth := a.Series.Channel(Ft.ChanDepth)

	var points []Ft.FracturePoint
	for i, c := range a.Classes {
		if c.Level < Ft.SeverityYellow {
			continue
		}
		points = append(points, Ft.FracturePoint{
			Timestamp:  a.Series.Stamps[i],
			Depth:      depth[i],
			Derivative: c.Derivative,
			Level:      c.Level,
		})
	}
	return points
}

package fracwatch

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	Ft "github.com/trsch/fracwatch/types"
)

// ErrEmptyInput is returned when zero samples are supplied.
// Nothing downstream can run without a time axis.
var ErrEmptyInput = errors.New("no telemetry samples supplied")

// MalformedTimestampError reports a record whose date/clock fields
// could not be parsed. Series construction aborts on the first one.
type MalformedTimestampError struct {
	Row int
	Err error
}

func (e *MalformedTimestampError) Error() string {
	return fmt.Sprintf("malformed timestamp at row %d: %v", e.Row, e.Err)
}

func (e *MalformedTimestampError) Unwrap() error { return e.Err }

// MissingChannelError reports a required telemetry field absent from input.
type MissingChannelError struct {
	Channel string
}

func (e *MissingChannelError) Error() string {
	return fmt.Sprintf("required channel missing from input: %s", e.Channel)
}

// Record is one raw row of the EDR table before normalization.
// Date and Clock are kept as strings the way the export writes them.
type Record struct {
	Date   string // "YYYY/MM/DD"
	Clock  string // "HH:MM:SS"
	Values map[string]float64
}

// Series is an ordered, append-only sequence of samples sharing one
// time axis. Once the derived channels are computed it is read-only
// and safe to share; the replay cursor never mutates it.
type Series struct {
	Stamps  []time.Time
	Seconds []float64
	Columns map[string][]float64
}

// recordLayout is the timestamp format of the EDR export.
const recordLayout = "2006/01/02 15:04:05"

// RequiredChannels are the fields a Series cannot be built without.
var RequiredChannels = []string{
	Ft.ChanROP,
	Ft.ChanWOB,
	Ft.ChanRPM,
	Ft.ChanDepth,
}

// NewSeries normalizes raw records into a Series: a canonical timestamp
// per row plus an elapsed-seconds axis anchored at the first sample.
// The raw order is preserved, no re-sorting happens here.
func NewSeries(records []Record) (*Series, error) {
	if len(records) == 0 {
		slog.Error("Cannot build series", slog.Any("Error", ErrEmptyInput))
		return nil, ErrEmptyInput
	}

	for _, ch := range RequiredChannels {
		if _, ok := records[0].Values[ch]; !ok {
			err := &MissingChannelError{Channel: ch}
			slog.Error("Cannot build series", slog.Any("Error", err))
			return nil, err
		}
	}

	s := &Series{
		Stamps:  make([]time.Time, len(records)),
		Seconds: make([]float64, len(records)),
		Columns: make(map[string][]float64),
	}

	// Initialize a column for every channel seen on the first record,
	// optional channels included
	for ch := range records[0].Values {
		s.Columns[ch] = make([]float64, len(records))
	}

	var epoch time.Time
	for i, rec := range records {
		ts, err := time.Parse(recordLayout, rec.Date+" "+rec.Clock)
		if err != nil {
			mte := &MalformedTimestampError{Row: i, Err: err}
			slog.Error("Cannot build series", slog.Any("Error", mte))
			return nil, mte
		}

		if i == 0 {
			epoch = ts
		}

		s.Stamps[i] = ts
		s.Seconds[i] = ts.Sub(epoch).Seconds()

		for ch, col := range s.Columns {
			col[i] = rec.Values[ch]
		}
	}

	return s, nil
}

// Len returns the number of samples on the shared axis.
func (s *Series) Len() int { return len(s.Stamps) }

// Channel returns a column by canonical name.
// Missing channels return nil rather than an error because
// the optional columns (block velocity, WOB setpoint) are
// legitimately absent on the basic EDR export.
func (s *Series) Channel(name string) []float64 {
	return s.Columns[name]
}

// HasChannel reports whether a column was present in the input.
func (s *Series) HasChannel(name string) bool {
	_, ok := s.Columns[name]
	return ok
}

// Sample materializes one row as a Sample value.
func (s *Series) Sample(i int) Ft.Sample {
	vals := make(map[string]float64, len(s.Columns))
	for ch, col := range s.Columns {
		vals[ch] = col[i]
	}
	return Ft.Sample{
		Timestamp: s.Stamps[i],
		Seconds:   s.Seconds[i],
		Values:    vals,
	}
}

// Select returns a new Series containing only the rows whose index
// appears in keep, preserving relative order and re-indexing densely.
// The elapsed axis is kept as-is so derivatives still see true spacing.
func (s *Series) Select(keep []int) *Series {
	out := &Series{
		Stamps:  make([]time.Time, len(keep)),
		Seconds: make([]float64, len(keep)),
		Columns: make(map[string][]float64, len(s.Columns)),
	}
	for ch := range s.Columns {
		out.Columns[ch] = make([]float64, len(keep))
	}
	for j, i := range keep {
		out.Stamps[j] = s.Stamps[i]
		out.Seconds[j] = s.Seconds[i]
		for ch, col := range s.Columns {
			out.Columns[ch][j] = col[i]
		}
	}
	return out
}

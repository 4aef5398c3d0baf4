package plugin

/*

	The Adapter sits aside /fracwatch/
	Contains core interfaces for Plugin

*/

import (
	"time"

	Ft "github.com/trsch/fracwatch/types"
)

// OutputAdapter defines a place for fracture-point reports to go,
// point-by-point or in batches if supported by the output type.
type OutputAdapter interface {
	WritePoint(point *Ft.FracturePoint) error                     // Write singleton report data
	WriteBatch(points []*Ft.FracturePoint) error                  // Write batches of points
	QueryRange(start, end time.Time) ([]*Ft.FracturePoint, error) // Time range query tool
	Flush() error                                                 // Flush any buffered data
	Close() error                                                 // Close the adapter and release resources
	Type() string                                                 // ID for output
}

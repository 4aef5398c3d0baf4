package plugin

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	Ft "github.com/trsch/fracwatch/types"
)

type BadgerOutput struct {
	MU        sync.Mutex
	DB        *badger.DB
	BatchSize int
	Buffer    []*Ft.FracturePoint
}

func NewBadgerOutput(path string, batchSize int) (*BadgerOutput, error) {
	opts := badger.DefaultOptions(path).
		WithCompression(options.ZSTD).
		WithNumVersionsToKeep(1)

	db, err := badger.Open(opts)
	if err != nil {
		slog.Error("BadgerOutput failed to open database", slog.Any("error", err))
		return nil, fmt.Errorf("database error: %w", err)
	}

	slog.Info("BadgerOutput opened",
		slog.String("path", path),
		slog.Int("batchSize", batchSize))

	return &BadgerOutput{
		DB:        db,
		BatchSize: batchSize,
		Buffer:    make([]*Ft.FracturePoint, 0, batchSize),
	}, nil
}

// WritePoint queues up a batch of fracture points,
// when batchsize is reached, it calls Flush()
// which calls WriteBatch() with the new batch
func (bo *BadgerOutput) WritePoint(point *Ft.FracturePoint) error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	bo.Buffer = append(bo.Buffer, point)
	if len(bo.Buffer) >= bo.BatchSize {
		return bo.flushLocked() // private Flush that does not lock
	}
	return nil
}

// WriteBatch performs the key/value creation to be stored
// and actually calls BadgerDB to write the data
func (bo *BadgerOutput) WriteBatch(points []*Ft.FracturePoint) error {
	wb := bo.DB.NewWriteBatch()
	defer wb.Cancel()

	for _, p := range points {
		k := PointKey(p)
		v := PointEncode(p)
		if err := wb.Set(k, v); err != nil {
			slog.Error("BadgerOutput failed to set key in batch",
				slog.Any("error", err),
				slog.Time("pointTime", p.Timestamp))
			return fmt.Errorf("write batch error: %w", err)
		}
	}

	if err := wb.Flush(); err != nil {
		slog.Error("BadgerOutput failed to flush batch", slog.Any("error", err))
		return fmt.Errorf("batch flush error: %w", err)
	}

	return nil
}

// Flush is the public method that blocks,
// it sends data to WriteBatch and then clears the buffer
func (bo *BadgerOutput) Flush() error {
	bo.MU.Lock()
	defer bo.MU.Unlock()

	if len(bo.Buffer) == 0 {
		return nil
	}

	err := bo.WriteBatch(bo.Buffer) // Delegate to WriteBatch
	bo.Buffer = bo.Buffer[:0]       // Clear but keep capacity
	return err
}

// flushLocked mimics Flush without locking, called by WritePoint
func (bo *BadgerOutput) flushLocked() error {
	err := bo.WriteBatch(bo.Buffer) // Delegate to WriteBatch
	bo.Buffer = bo.Buffer[:0]       // Clear but keep capacity
	return err
}

// Close returns a Flush error but still attempts to close
func (bo *BadgerOutput) Close() error {
	slog.Info("BadgerOutput closing, flushing buffer",
		slog.Int("bufferSize", len(bo.Buffer)))
	flushErr := bo.Flush()
	closeErr := bo.DB.Close()

	if flushErr != nil {
		slog.Error("BadgerOutput failed to flush on close", slog.Any("error", flushErr))
		return fmt.Errorf("flush failed, close may have failed: %v", flushErr)
	}

	if closeErr != nil {
		slog.Error("BadgerOutput failed to close database", slog.Any("error", closeErr))
		return fmt.Errorf("close failed: %v", closeErr)
	}

	slog.Info("BadgerOutput closed successfully")
	return nil
}

func (bo *BadgerOutput) Type() string { return "BadgerDB" }

// PointKey creates a composite key
// timestamp + severity + truncated depth in feet
func PointKey(point *Ft.FracturePoint) []byte {
	key := make([]byte, 8+1+4)

	// Using positive BigEndian integer to convert timestamp
	// so keys can be sorted chronologically by BadgerDB
	binary.BigEndian.PutUint64(key[0:8], uint64(point.Timestamp.UnixNano()))

	// Set Severity
	key[8] = byte(int(point.Level) + 2) // enum floor is -2, keep the byte positive

	// Whole feet of hole depth disambiguates same-second samples
	binary.BigEndian.PutUint32(key[9:13], uint32(point.Depth))

	return key
}

// PointEncode serializes the fracture point struct for data storage
func PointEncode(p *Ft.FracturePoint) []byte {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	enc.Encode(p)
	return buf.Bytes()
}

// PointDecode deserializes the fracture point data
func PointDecode(data []byte) (*Ft.FracturePoint, error) {
	var p Ft.FracturePoint
	buf := bytes.NewBuffer(data)
	dec := gob.NewDecoder(buf)
	err := dec.Decode(&p)
	return &p, err
}

// QueryRange retrieves fracture points within a time range
func (bo *BadgerOutput) QueryRange(start, end time.Time) ([]*Ft.FracturePoint, error) {
	var points []*Ft.FracturePoint

	// db.View() callback
	// BadgerDB provides a transaction in which to get item.Value()
	err := bo.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()

			// item.Value() callback
			// BadgerDB passes bytes to the anon func
			err := item.Value(func(val []byte) error {
				point, err := PointDecode(val)
				if err != nil {
					slog.Error("BadgerOutput failed to decode point", slog.Any("error", err))
					return fmt.Errorf("point decode error: %w", err)
				}

				// Filter by time range
				if point.Timestamp.After(start) && point.Timestamp.Before(end) {
					points = append(points, point)
				}

				return nil
			})
			if err != nil {
				slog.Error("BadgerOutput callback failure", slog.Any("error", err))
				return fmt.Errorf("item data error: %w", err)
			}
		}
		return nil
	})

	slog.Info("BadgerOutput QueryRange successful", slog.Int("count", len(points)))

	return points, err
}

package fracwatch

import (
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	Ft "github.com/trsch/fracwatch/types"
)

const (
	alertSubject    = "fracwatch.alerts"
	snapshotSubject = "fracwatch.snapshots"
)

// Publisher pushes alert events and snapshots onto NATS subjects for
// collaborators that are not polling the HTTP surface.
type Publisher struct {
	NC *nats.Conn
}

// NewPublisher connects to NATS with aggressive reconnects; rig-floor
// networks drop.
func NewPublisher(url string) (*Publisher, error) {
	nc, err := nats.Connect(
		url,
		nats.Name("fracwatch"),
		nats.Timeout(3*time.Second),
		nats.ReconnectWait(500*time.Millisecond),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{NC: nc}, nil
}

// AlertMsg is the wire form of a sustained fracture alert.
type AlertMsg struct {
	Subject    string    `json:"subject"`
	Timestamp  time.Time `json:"timestamp"`
	Derivative float64   `json:"derivative"`
	Level      string    `json:"level"`
}

// PublishAlert emits one sustained-alert event.
func (p *Publisher) PublishAlert(snap Ft.Snapshot) error {
	msg := AlertMsg{
		Subject:    alertSubject,
		Timestamp:  snap.Timestamp,
		Derivative: snap.Derivative,
		Level:      SeverityToString(snap.Level),
	}
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return p.NC.Publish(alertSubject, b)
}

// PublishSnapshot emits the per-tick projection in its wire form.
func (p *Publisher) PublishSnapshot(snap Ft.Snapshot) error {
	b, err := json.Marshal(SnapshotWire(snap))
	if err != nil {
		return err
	}
	return p.NC.Publish(snapshotSubject, b)
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p.NC != nil {
		p.NC.Drain()
	}
}

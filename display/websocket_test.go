package fracwatch_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	Fd "github.com/trsch/fracwatch/display"
)

func TestWebsocketHandler(t *testing.T) {
	v := makeView(t)
	server := httptest.NewServer(v.SetupMux())
	defer server.Close()

	// Get a couple of ticks onto the view before connecting
	v.Tick()
	v.Tick()

	wsURL := strings.Replace(server.URL, "http://", "ws://", 1) + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("could not dial websocket: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))

	var snap Fd.SnapshotData
	if err := conn.ReadJSON(&snap); err != nil {
		t.Fatalf("could not read snapshot: %v", err)
	}

	if snap.Index != 1 {
		t.Errorf("Index = %d, want 1", snap.Index)
	}
}

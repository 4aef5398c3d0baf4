package fracwatch

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebsocketHandler streams the current snapshot to a front end once
// per second, matching the replay tick.
func (v *View) WebsocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		v.MU.RLock()
		snap := v.last
		v.MU.RUnlock()

		if err := conn.WriteJSON(SnapshotWire(snap)); err != nil {
			return // Connection closed
		}

		if snap.Done {
			return
		}
	}
}

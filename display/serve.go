package fracwatch

import (
	"errors"
	"log/slog"
	"net/http"
)

// StartDataServ runs the replay supervisor and the data-serving
// endpoints. It blocks on the HTTP server; the replay keeps ticking
// in the background until the session is exhausted.
func StartDataServ(v *View, addr string) error {
	sup := v.NewReplaySupervisor()
	sup.Start()
	defer sup.Stop()

	v.server = &http.Server{
		Addr:    addr,
		Handler: v.SetupMux(),
	}

	slog.Info("Starting fracwatch data endpoint...", slog.String("Addr", addr))
	if err := v.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Could not start data endpoint", slog.Any("Error", err))
		return err
	}

	return nil
}

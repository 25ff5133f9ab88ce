package api

import (
	"io"
	"log/slog"
)

// testLogger returns a logger that discards everything; handler tests only
// assert on responses.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

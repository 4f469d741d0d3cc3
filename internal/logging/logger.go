package logging

import (
	"log/slog"
	"os"
)

// Setup installs the process-wide slog logger: JSON to stdout at INFO,
// fanned out to any extra sinks. main calls this twice: bare at boot,
// then again with the database error sink once the connection is up.
func Setup(sinks ...slog.Handler) {
	all := make(fanout, 0, len(sinks)+1)
	all = append(all, slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	all = append(all, sinks...)
	slog.SetDefault(slog.New(all))
}

// Package logging builds the structured stderr logger shared by the CLI and
// the release pipeline.
package logging

import (
	"io"

	"github.com/charmbracelet/log"
)

// Prefix tags every line written by the release tool.
const Prefix = "release"

// New returns a logger writing to w. Debug lowers the level from info to
// debug and adds caller locations.
func New(w io.Writer, debug bool) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
		logger.SetReportCaller(true)
	}
	return logger
}

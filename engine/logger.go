package engine

import (
	"io"
	"log"
)

var logger *log.Logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger sets the logger used by the frame loop.
func SetLogger(l *log.Logger) {
	logger = l
}

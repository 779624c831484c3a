package buildmap

import (
	"io"
	"log"
)

var logger *log.Logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger sets the logger used while reading and validating maps.
func SetLogger(l *log.Logger) {
	logger = l
}

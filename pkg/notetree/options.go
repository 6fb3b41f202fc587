package notetree

import (
	"io"
	"log/slog"

	"github.com/joshuapare/booxkit/internal/format"
)

// Options controls record decoding.
type Options struct {
	// Logger receives per-record Debug events and Warn events on failure.
	// If nil, logging is discarded.
	Logger *slog.Logger
}

// ScanOptions controls the exploratory tag scanner.
type ScanOptions struct {
	// Iterations bounds the number of markers read.
	// Default: 12
	Iterations int

	// Header reads the file header (magic, separator, identifier, 15 bytes,
	// name) before the tag loop.
	Header bool

	// Logger receives one Debug event per scanned marker. If nil, logging is discarded.
	Logger *slog.Logger
}

// BraceOptions controls repeated JSON object extraction.
type BraceOptions struct {
	// Mode selects brace counting. Default: BraceNaive.
	Mode BraceMode

	// Max bounds the number of objects extracted. Default: 100
	Max int
}

// DefaultMaxObjects is the BraceOptions.Max used when it is zero.
const DefaultMaxObjects = 100

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func loggerOr(l *slog.Logger) *slog.Logger {
	if l == nil {
		return discard
	}
	return l
}

func (o ScanOptions) iterations() int {
	if o.Iterations <= 0 {
		return format.DefaultScanIterations
	}
	return o.Iterations
}

func (o BraceOptions) max() int {
	if o.Max <= 0 {
		return DefaultMaxObjects
	}
	return o.Max
}

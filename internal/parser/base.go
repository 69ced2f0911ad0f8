package parser

import (
	"time"

	"fjacquet/fincat/internal/logging"
)

// Clock returns the current time. Parsers take one so tests can pin dates.
type Clock func() time.Time

// BaseParser holds what every parser needs: a logger and a clock.
//
// Parsers embed it:
//
//	type MyParser struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	logger logging.Logger
	clock  Clock
}

// NewBaseParser creates a BaseParser. A nil logger falls back to the default
// logger and a nil clock to time.Now.
func NewBaseParser(logger logging.Logger, clock Clock) BaseParser {
	if clock == nil {
		clock = time.Now
	}
	return BaseParser{
		logger: logging.OrDefault(logger),
		clock:  clock,
	}
}

// SetLogger replaces the logger. Nil is ignored.
func (b *BaseParser) SetLogger(logger logging.Logger) {
	if logger != nil {
		b.logger = logger
	}
}

// SetClock replaces the clock. Nil is ignored.
func (b *BaseParser) SetClock(clock Clock) {
	if clock != nil {
		b.clock = clock
	}
}

// GetLogger returns the parser's logger.
func (b *BaseParser) GetLogger() logging.Logger {
	if b.logger == nil {
		b.logger = logging.GetLogger()
	}
	return b.logger
}

// Now returns the parser clock's current time.
func (b *BaseParser) Now() time.Time {
	if b.clock == nil {
		return time.Now()
	}
	return b.clock()
}

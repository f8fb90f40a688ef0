package domain

import (
	"errors"
	"fmt"
)

var (
	// input
	ErrMalformedRecord    = errors.New("malformed trace record")
	ErrMalformedFlowStats = errors.New("malformed flow statistics")
	ErrMalformedQueue     = errors.New("malformed queue trace record")
	ErrMissingFlowID      = errors.New("the flow has no usable flowId attribute")
	ErrDuplicateFlowID    = errors.New("the flowId appears on more than one flow")
	ErrZeroPackets        = errors.New("the flow reports a delay sum but no received packets")

	// reports
	ErrUnknownReport   = errors.New("this report is not known")
	ErrNoSeries        = errors.New("the figure has no panels to render")
	ErrInvalidConfig   = errors.New("the analysis config is invalid")
	ErrNoSchemes       = errors.New("no queueing schemes are configured")
	ErrNoQuantums      = errors.New("no quantums are configured")
	ErrLoggerNotInited = errors.New("the logger is not initialized")
)

// ParseError reports an input that could not be parsed, with enough context
// to find it again.
type ParseError struct {
	File    string
	Line    int
	Content string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v (%q)", e.File, e.Line, e.Err, e.Content)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

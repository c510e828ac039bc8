package importing

import (
	"fmt"
	"math"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidUpload = errors.New("invalid upload")

// Row problems beyond this are summarised rather than listed.
const maxReportedProblems = 10

// maxCount is the largest accepted send, open, click or bounce count.
const maxCount = math.MaxInt32

var errCountTooLarge = errors.New("count too large")

// ParseError is returned for input the user has to fix and resubmit.
type ParseError struct {
	Message string
	Details []string
}

func (e *ParseError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

func (e *ParseError) Unwrap() error {
	return ErrInvalidUpload
}

func newParseError(message string, details ...string) *ParseError {
	if len(details) == 0 {
		details = []string{message}
	}
	return &ParseError{Message: message, Details: details}
}

// problems collects per-row errors.
type problems struct {
	items []string
	total int
}

func (p *problems) addf(format string, args ...any) {
	p.total++
	if len(p.items) < maxReportedProblems {
		p.items = append(p.items, fmt.Sprintf(format, args...))
	}
}

func (p *problems) err(message string) error {
	if p.total == 0 {
		return nil
	}
	details := p.items
	if extra := p.total - len(p.items); extra > 0 {
		details = append(details, fmt.Sprintf("... and %d more", extra))
	}
	return &ParseError{Message: message, Details: details}
}

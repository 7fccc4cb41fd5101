// Package studentid derives human-readable student identifiers of the form
// "{YY}{NNNN}": the two-digit admission year followed by a four-digit,
// zero-padded sequence number.
package studentid

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"
)

const (
	// SequenceWidth is the fixed width of the numeric suffix.
	SequenceWidth = 4
	// MaxSequence is the highest sequence number the fixed-width suffix can hold.
	MaxSequence = 9999
	// PrefixWidth is the fixed width of the year prefix.
	PrefixWidth = 2
)

// ErrSequenceExhausted is returned when a year prefix has no sequence
// numbers left. The suffix is never truncated.
var ErrSequenceExhausted = errors.New("student ID sequence exhausted for year prefix")

// SequenceSource provides the current highest identifier for a year prefix.
// An empty string means no identifier with that prefix exists yet.
type SequenceSource interface {
	MaxIdentifierForPrefix(ctx context.Context, prefix string) (string, error)
}

// Generator produces the next identifier for an admission year. The mutex
// serializes in-process scan-and-assign; cross-process callers are serialized
// by the unique constraint on the storage layer, with the composer retrying
// on conflict.
type Generator struct {
	mu     sync.Mutex
	source SequenceSource
}

// NewGenerator creates a Generator backed by the given source.
func NewGenerator(source SequenceSource) *Generator {
	return &Generator{source: source}
}

// YearPrefix returns the two-digit prefix for an admission date.
func YearPrefix(admissionDate time.Time) string {
	return fmt.Sprintf("%0*d", PrefixWidth, admissionDate.Year()%100)
}

// Next returns the next identifier for the given admission date. The new
// sequence number is one greater than the highest existing sequence for the
// year prefix, independent of how many records currently exist, so gaps left
// by deletions are never reused.
func (g *Generator) Next(ctx context.Context, admissionDate time.Time) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	prefix := YearPrefix(admissionDate)

	max, err := g.source.MaxIdentifierForPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("scanning max identifier for prefix %s: %w", prefix, err)
	}

	next := 1
	if max != "" {
		seq, err := parseSequence(max)
		if err != nil {
			return "", fmt.Errorf("existing identifier %q is malformed: %w", max, err)
		}
		next = seq + 1
	}

	if next > MaxSequence {
		return "", fmt.Errorf("%w: %s", ErrSequenceExhausted, prefix)
	}

	return fmt.Sprintf("%s%0*d", prefix, SequenceWidth, next), nil
}

// parseSequence extracts the numeric suffix of an identifier.
func parseSequence(identifier string) (int, error) {
	if len(identifier) != PrefixWidth+SequenceWidth {
		return 0, fmt.Errorf("expected %d characters, got %d", PrefixWidth+SequenceWidth, len(identifier))
	}
	seq, err := strconv.Atoi(identifier[PrefixWidth:])
	if err != nil {
		return 0, err
	}
	return seq, nil
}

package studentid

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySource keeps assigned identifiers in memory and reports the max per prefix.
type memorySource struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newMemorySource() *memorySource {
	return &memorySource{ids: make(map[string]struct{})}
}

func (s *memorySource) MaxIdentifierForPrefix(_ context.Context, prefix string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	max := ""
	for id := range s.ids {
		if len(id) >= len(prefix) && id[:len(prefix)] == prefix && id > max {
			max = id
		}
	}
	return max, nil
}

func (s *memorySource) add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// reserve mimics an insert guarded by a unique constraint.
func (s *memorySource) reserve(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.ids[id]; taken {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func date(year int) time.Time {
	return time.Date(year, time.September, 1, 0, 0, 0, 0, time.UTC)
}

func TestGeneratorSequentialSequence(t *testing.T) {
	source := newMemorySource()
	gen := NewGenerator(source)

	for i := 1; i <= 25; i++ {
		id, err := gen.Next(context.Background(), date(2024))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("24%04d", i), id)
		source.add(id)
	}
}

func TestGeneratorFirstIdentifierForYear(t *testing.T) {
	gen := NewGenerator(newMemorySource())

	id, err := gen.Next(context.Background(), date(2024))
	require.NoError(t, err)
	assert.Equal(t, "240001", id)
}

func TestGeneratorIndependentYearPrefixes(t *testing.T) {
	source := newMemorySource()
	gen := NewGenerator(source)

	for i := 0; i < 3; i++ {
		id, err := gen.Next(context.Background(), date(2024))
		require.NoError(t, err)
		source.add(id)
	}

	id, err := gen.Next(context.Background(), date(2025))
	require.NoError(t, err)
	assert.Equal(t, "250001", id)
}

func TestGeneratorSkipsGapsFromDeletions(t *testing.T) {
	source := newMemorySource()
	// Only the max matters; 240001 and 240002 were deleted.
	source.add("240005")
	gen := NewGenerator(source)

	id, err := gen.Next(context.Background(), date(2024))
	require.NoError(t, err)
	assert.Equal(t, "240006", id)
}

func TestGeneratorSequenceExhausted(t *testing.T) {
	source := newMemorySource()
	source.add("249999")
	gen := NewGenerator(source)

	_, err := gen.Next(context.Background(), date(2024))
	require.ErrorIs(t, err, ErrSequenceExhausted)
}

func TestGeneratorMalformedExistingIdentifier(t *testing.T) {
	source := newMemorySource()
	source.add("24X001")
	gen := NewGenerator(source)

	_, err := gen.Next(context.Background(), date(2024))
	require.Error(t, err)
}

func TestGeneratorConcurrentCallersNeverCollide(t *testing.T) {
	source := newMemorySource()
	gen := NewGenerator(source)

	const callers = 50
	var wg sync.WaitGroup
	ids := make([]string, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			// Same discipline as the composer: generate, then reserve
			// against the unique constraint, retrying on conflict.
			for {
				id, err := gen.Next(context.Background(), date(2024))
				if err != nil {
					t.Errorf("Next returned error: %v", err)
					return
				}
				if source.reserve(id) {
					ids[slot] = id
					return
				}
			}
		}(i)
	}
	wg.Wait()

	sort.Strings(ids)
	for i := 1; i < len(ids); i++ {
		assert.NotEqual(t, ids[i-1], ids[i], "two callers reserved the same identifier")
	}
}

func TestYearPrefix(t *testing.T) {
	assert.Equal(t, "24", YearPrefix(date(2024)))
	assert.Equal(t, "05", YearPrefix(date(2005)))
	assert.Equal(t, "00", YearPrefix(date(2100)))
}

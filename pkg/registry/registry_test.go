package registry

import (
	"fmt"
	"sync"
	"testing"

	"github.com/jroark/cellduel/pkg/match"
	"github.com/jroark/cellduel/pkg/messages"
	"github.com/jroark/cellduel/pkg/puzzle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopSender struct{}

func (nopSender) Send(msg messages.Message) error { return nil }
func (nopSender) Connected() bool                 { return true }

func newTestRegistry() *Registry {
	return NewRegistry(NewRegistryOptions{
		Source: puzzle.NewGeneratorWithSeed(1),
	})
}

func TestCreateMatch(t *testing.T) {
	r := newTestRegistry()

	m, err := r.CreateMatch("alice", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)
	require.NotNil(t, m)

	assert.Len(t, m.Code(), 4)
	assert.Regexp(t, `^\d{4}$`, m.Code())
	assert.True(t, m.IsWaiting())
	assert.Equal(t, 1, r.ActiveCount())
	assert.Same(t, m, r.Get(m.Code()))
}

func TestCreateMatchUniqueCodes(t *testing.T) {
	r := newTestRegistry()

	const n = 200
	var wg sync.WaitGroup
	codes := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			m, err := r.CreateMatch("host", puzzle.DifficultyHard, nopSender{})
			assert.NoError(t, err)
			codes[i] = m.Code()
		}(i)
	}
	wg.Wait()

	seen := make(map[string]struct{}, n)
	for _, code := range codes {
		_, dup := seen[code]
		assert.False(t, dup, "code %s allocated twice", code)
		seen[code] = struct{}{}
	}
	assert.Equal(t, n, r.ActiveCount())
}

func TestJoinMatch(t *testing.T) {
	r := newTestRegistry()
	created, err := r.CreateMatch("alice", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)

	m, playerID, err := r.JoinMatch(created.Code(), "bob", nopSender{})
	require.NoError(t, err)
	assert.Same(t, created, m)
	assert.Equal(t, 2, playerID)
	assert.True(t, m.Started())

	_, _, err = r.JoinMatch(created.Code(), "carol", nopSender{})
	var full *match.ErrGameFull
	assert.ErrorAs(t, err, &full)
}

func TestJoinMatchNotFound(t *testing.T) {
	r := newTestRegistry()
	_, _, err := r.JoinMatch("0000", "bob", nopSender{})
	assert.True(t, IsNotFound(err))
}

func TestListWaiting(t *testing.T) {
	r := newTestRegistry()
	assert.Empty(t, r.ListWaiting())

	first, err := r.CreateMatch("alice", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)
	second, err := r.CreateMatch("bob", puzzle.DifficultyMedium, nopSender{})
	require.NoError(t, err)

	waiting := r.ListWaiting()
	require.Len(t, waiting, 2)
	byCode := make(map[string]string)
	for _, w := range waiting {
		byCode[w.Code] = w.CreatorName
	}
	assert.Equal(t, "alice", byCode[first.Code()])
	assert.Equal(t, "bob", byCode[second.Code()])

	// a full match is no longer waiting
	_, _, err = r.JoinMatch(first.Code(), "carol", nopSender{})
	require.NoError(t, err)
	waiting = r.ListWaiting()
	require.Len(t, waiting, 1)
	assert.Equal(t, second.Code(), waiting[0].Code)
}

func TestCleanupEnded(t *testing.T) {
	r := newTestRegistry()
	ended, err := r.CreateMatch("alice", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)
	live, err := r.CreateMatch("bob", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)

	ended.HandleDisconnect(1)
	r.CleanupEnded()

	assert.Nil(t, r.Get(ended.Code()))
	assert.Same(t, live, r.Get(live.Code()))
	assert.Equal(t, 1, r.ActiveCount())
}

func TestCodeReuseAfterRemove(t *testing.T) {
	r := newTestRegistry()
	m, err := r.CreateMatch("alice", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)
	code := m.Code()

	// occupy every code, then remove the match: the freed code is the only
	// one left, so the next allocation must return it
	r.lock.Lock()
	for n := 1000; n <= 9999; n++ {
		r.codes[fmt.Sprintf("%04d", n)] = struct{}{}
	}
	r.lock.Unlock()

	r.Remove(code)
	assert.Nil(t, r.Get(code))
	assert.Equal(t, code, r.allocateCode())
}

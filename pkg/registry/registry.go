package registry

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/match"
	"github.com/jroark/cellduel/pkg/puzzle"
)

// ErrNotFound is returned when no live match has the requested code.
type ErrNotFound struct {
	Code string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("game %s not found", e.Code)
}

// IsNotFound reports whether err is an ErrNotFound.
func IsNotFound(err error) bool {
	_, ok := err.(*ErrNotFound)
	return ok
}

// WaitingGame describes one match waiting for a second player.
type WaitingGame struct {
	Code        string
	CreatorName string
}

// Registry is the process-wide directory of live matches keyed by their
// 4-digit code. It owns every match from creation until cleanup.
type Registry struct {
	source puzzle.Source

	lock    sync.RWMutex
	matches map[string]*match.Match
	// codes is the set of live codes; allocation is a single locked
	// add-if-missing, never a separate contains-then-add
	codes map[string]struct{}

	rng     *rand.Rand
	rngLock sync.Mutex
}

// NewRegistryOptions contains options for creating a new Registry.
type NewRegistryOptions struct {
	Source puzzle.Source
}

// NewRegistry creates an empty registry backed by the given puzzle source.
func NewRegistry(opts NewRegistryOptions) *Registry {
	return &Registry{
		source:  opts.Source,
		matches: make(map[string]*match.Match),
		codes:   make(map[string]struct{}),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// CreateMatch allocates a fresh code, seeds a match from the puzzle source
// and registers the creator as player 1.
func (r *Registry) CreateMatch(hostName string, difficulty puzzle.Difficulty, sender match.Sender) (*match.Match, error) {
	code := r.allocateCode()

	m, err := match.New(code, difficulty, r.source)
	if err != nil {
		r.releaseCode(code)
		return nil, fmt.Errorf("failed to create match: %v", err)
	}
	if _, err := m.Join(hostName, sender); err != nil {
		r.releaseCode(code)
		return nil, fmt.Errorf("failed to register host: %v", err)
	}

	r.lock.Lock()
	r.matches[code] = m
	r.lock.Unlock()

	log.Info("Created game %s by player %q (difficulty: %s)", code, hostName, difficulty)
	return m, nil
}

// JoinMatch adds a player to an existing match. Races between joiners are
// resolved inside Match.Join: the first call to win the slot gets it, the
// loser gets ErrGameFull.
func (r *Registry) JoinMatch(code, name string, sender match.Sender) (*match.Match, int, error) {
	m := r.Get(code)
	if m == nil {
		return nil, 0, &ErrNotFound{Code: code}
	}

	playerID, err := m.Join(name, sender)
	if err != nil {
		return nil, 0, err
	}

	log.Info("Player %q joined game %s as player %d", name, code, playerID)
	return m, playerID, nil
}

// Get returns the live match with the given code, or nil.
func (r *Registry) Get(code string) *match.Match {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.matches[code]
}

// ListWaiting returns a snapshot of matches still waiting for a second
// player. Weakly consistent: a listed match may fill before a join lands;
// the joiner then sees ErrGameFull and refreshes.
func (r *Registry) ListWaiting() []WaitingGame {
	r.lock.RLock()
	defer r.lock.RUnlock()

	waiting := make([]WaitingGame, 0)
	for code, m := range r.matches {
		if !m.IsWaiting() || m.Ended() {
			continue
		}
		host := m.PlayerByID(1)
		if host == nil {
			continue
		}
		waiting = append(waiting, WaitingGame{
			Code:        code,
			CreatorName: host.Name,
		})
	}
	return waiting
}

// Remove deletes a match and frees its code for reuse.
func (r *Registry) Remove(code string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if _, ok := r.matches[code]; !ok {
		return
	}
	delete(r.matches, code)
	delete(r.codes, code)
	log.Info("Removed game %s", code)
}

// CleanupEnded removes every ended match from the registry.
func (r *Registry) CleanupEnded() {
	r.lock.Lock()
	defer r.lock.Unlock()
	for code, m := range r.matches {
		if m.Ended() {
			delete(r.matches, code)
			delete(r.codes, code)
			log.Debug("Cleaned up ended game %s", code)
		}
	}
}

// ActiveCount returns the number of live matches.
func (r *Registry) ActiveCount() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return len(r.matches)
}

// allocateCode generates a unique 4-digit decimal code. The check and insert
// into the live-code set happen atomically under the registry lock, so two
// concurrent creators can never claim the same code.
func (r *Registry) allocateCode() string {
	for {
		r.rngLock.Lock()
		n := r.rng.Intn(9000) + 1000
		r.rngLock.Unlock()
		code := fmt.Sprintf("%04d", n)

		r.lock.Lock()
		if _, taken := r.codes[code]; !taken {
			r.codes[code] = struct{}{}
			r.lock.Unlock()
			return code
		}
		r.lock.Unlock()
	}
}

func (r *Registry) releaseCode(code string) {
	r.lock.Lock()
	defer r.lock.Unlock()
	delete(r.codes, code)
}

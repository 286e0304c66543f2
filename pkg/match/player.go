package match

import (
	"fmt"

	"github.com/jroark/cellduel/pkg/messages"
)

// Sender delivers outbound messages to one connected player. Implementations
// must be safe for concurrent use.
type Sender interface {
	Send(msg messages.Message) error
	Connected() bool
}

// Player is one occupied slot in a match. The match is the sole owner; the
// send handle is only dereferenced through the match's operations.
type Player struct {
	ID     int
	Name   string
	sender Sender
}

// NewPlayer creates a player bound to a send handle.
func NewPlayer(id int, name string, sender Sender) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		sender: sender,
	}
}

// Send delivers a message to this player if they are still connected.
func (p *Player) Send(msg messages.Message) error {
	if p.sender == nil || !p.sender.Connected() {
		return nil
	}
	return p.sender.Send(msg)
}

// Connected reports whether the player's channel is still open.
func (p *Player) Connected() bool {
	return p.sender != nil && p.sender.Connected()
}

func (p *Player) String() string {
	return fmt.Sprintf("Player{id=%d, name=%s}", p.ID, p.Name)
}

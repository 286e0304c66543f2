package repositories

import (
	"context"
	"time"
)

// GameRecord is the stored result of one finished match. Records are written
// once when a match ends; they are history, not resumable state.
type GameRecord struct {
	Code        string
	Difficulty  string
	Player1Name string
	Player2Name string
	Score1      int
	Score2      int
	WinnerID    int
	Reason      string
	// Board is the zstd-compressed JSON snapshot of the final grid.
	Board   []byte
	EndedAt time.Time
}

type Repository interface {
	Close(ctx context.Context) error
	SaveGameRecord(ctx context.Context, record *GameRecord) error
	ListGameRecords(ctx context.Context, limit int) ([]*GameRecord, error)
}

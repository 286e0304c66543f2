package repositories

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS game_records (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	code TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	player1_name TEXT NOT NULL,
	player2_name TEXT NOT NULL,
	score1 INTEGER NOT NULL,
	score2 INTEGER NOT NULL,
	winner_id INTEGER NOT NULL,
	reason TEXT NOT NULL,
	board BLOB,
	ended_at TIMESTAMP NOT NULL
);
`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(ctx context.Context, path string) (Repository, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &SQLiteRepository{
		db: db,
	}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) SaveGameRecord(ctx context.Context, record *GameRecord) error {
	q := `
	INSERT INTO game_records (code, difficulty, player1_name, player2_name, score1, score2, winner_id, reason, board, ended_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`
	_, err := r.db.ExecContext(ctx, q,
		record.Code,
		record.Difficulty,
		record.Player1Name,
		record.Player2Name,
		record.Score1,
		record.Score2,
		record.WinnerID,
		record.Reason,
		record.Board,
		record.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert game record: %v", err)
	}

	return nil
}

func (r *SQLiteRepository) ListGameRecords(ctx context.Context, limit int) ([]*GameRecord, error) {
	q := `
	SELECT code, difficulty, player1_name, player2_name, score1, score2, winner_id, reason, board, ended_at
	FROM game_records ORDER BY ended_at DESC LIMIT ?;
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query game records: %v", err)
	}
	defer rows.Close()

	records := make([]*GameRecord, 0)
	for rows.Next() {
		record := &GameRecord{}
		if err := rows.Scan(
			&record.Code,
			&record.Difficulty,
			&record.Player1Name,
			&record.Player2Name,
			&record.Score1,
			&record.Score2,
			&record.WinnerID,
			&record.Reason,
			&record.Board,
			&record.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan game record: %v", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read game records: %v", err)
	}

	return records, nil
}

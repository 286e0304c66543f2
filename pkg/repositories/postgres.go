package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS game_records (
	id SERIAL PRIMARY KEY,
	code TEXT NOT NULL,
	difficulty TEXT NOT NULL,
	player1_name TEXT NOT NULL,
	player2_name TEXT NOT NULL,
	score1 INTEGER NOT NULL,
	score2 INTEGER NOT NULL,
	winner_id INTEGER NOT NULL,
	reason TEXT NOT NULL,
	board BYTEA,
	ended_at TIMESTAMPTZ NOT NULL
);
`

type PostgresRepository struct {
	conn *pgx.Conn
}

func NewPostgresRepository(ctx context.Context, connStr string) (Repository, error) {
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if _, err := conn.Exec(ctx, postgresSchema); err != nil {
		return nil, fmt.Errorf("failed to create schema: %v", err)
	}

	return &PostgresRepository{
		conn: conn,
	}, nil
}

func (r *PostgresRepository) Close(ctx context.Context) error {
	return r.conn.Close(ctx)
}

func (r *PostgresRepository) SaveGameRecord(ctx context.Context, record *GameRecord) error {
	q := `
	INSERT INTO game_records (code, difficulty, player1_name, player2_name, score1, score2, winner_id, reason, board, ended_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.conn.Exec(ctx, q,
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

func (r *PostgresRepository) ListGameRecords(ctx context.Context, limit int) ([]*GameRecord, error) {
	q := `
	SELECT code, difficulty, player1_name, player2_name, score1, score2, winner_id, reason, board, ended_at
	FROM game_records ORDER BY ended_at DESC LIMIT $1;
	`
	rows, err := r.conn.Query(ctx, q, limit)
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

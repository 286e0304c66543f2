package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jroark/cellduel/pkg/messages"
	"github.com/jroark/cellduel/pkg/puzzle"
	"github.com/jroark/cellduel/pkg/registry"
	"github.com/jroark/cellduel/pkg/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	records []*repositories.GameRecord
	limit   int
}

func (f *fakeRepository) Close(ctx context.Context) error { return nil }

func (f *fakeRepository) SaveGameRecord(ctx context.Context, record *repositories.GameRecord) error {
	f.records = append(f.records, record)
	return nil
}

func (f *fakeRepository) ListGameRecords(ctx context.Context, limit int) ([]*repositories.GameRecord, error) {
	f.limit = limit
	if limit > len(f.records) {
		limit = len(f.records)
	}
	return f.records[:limit], nil
}

type nopSender struct{}

func (nopSender) Send(_ messages.Message) error { return nil }
func (nopSender) Connected() bool               { return true }

func TestHandleHealthz(t *testing.T) {
	w := httptest.NewRecorder()
	HandleHealthz()(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestHandleListGames(t *testing.T) {
	reg := registry.NewRegistry(registry.NewRegistryOptions{Source: puzzle.NewGenerator()})
	m, err := reg.CreateMatch("alice", puzzle.DifficultyEasy, nopSender{})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	HandleListGames(reg)(w, httptest.NewRequest(http.MethodGet, "/api/games", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var games []WaitingGameResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, m.Code(), games[0].GameCode)
	assert.Equal(t, "alice", games[0].CreatorName)
}

func TestHandleListHistory(t *testing.T) {
	grid := make([]int, 81)
	for i := range grid {
		grid[i] = i%9 + 1
	}
	boardData, err := repositories.EncodeBoardSnapshot(grid)
	require.NoError(t, err)

	repo := &fakeRepository{records: []*repositories.GameRecord{{
		Code:        "1234",
		Difficulty:  "EASY",
		Player1Name: "alice",
		Player2Name: "bob",
		Score1:      30,
		Score2:      10,
		WinnerID:    1,
		Reason:      "Game completed",
		Board:       boardData,
		EndedAt:     time.Now(),
	}}}

	w := httptest.NewRecorder()
	HandleListHistory(repo)(w, httptest.NewRequest(http.MethodGet, "/api/history", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var records []GameRecordResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "1234", records[0].Code)
	assert.Equal(t, 1, records[0].WinnerID)
	assert.Equal(t, grid, records[0].Board)
	assert.Equal(t, defaultHistoryLimit, repo.limit)
}

func TestHandleListHistoryLimit(t *testing.T) {
	repo := &fakeRepository{}

	w := httptest.NewRecorder()
	HandleListHistory(repo)(w, httptest.NewRequest(http.MethodGet, "/api/history?limit=5", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 5, repo.limit)

	w = httptest.NewRecorder()
	HandleListHistory(repo)(w, httptest.NewRequest(http.MethodGet, "/api/history?limit=1000", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxHistoryLimit, repo.limit)

	w = httptest.NewRecorder()
	HandleListHistory(repo)(w, httptest.NewRequest(http.MethodGet, "/api/history?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

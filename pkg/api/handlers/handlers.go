package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/jroark/cellduel/pkg/log"
	"github.com/jroark/cellduel/pkg/registry"
	"github.com/jroark/cellduel/pkg/repositories"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// WaitingGameResponse is one joinable game in the /api/games listing.
type WaitingGameResponse struct {
	GameCode    string `json:"gameCode"`
	CreatorName string `json:"creatorName"`
}

// GameRecordResponse is one finished match in the /api/history listing.
type GameRecordResponse struct {
	Code        string    `json:"code"`
	Difficulty  string    `json:"difficulty"`
	Player1Name string    `json:"player1Name"`
	Player2Name string    `json:"player2Name"`
	Score1      int       `json:"score1"`
	Score2      int       `json:"score2"`
	WinnerID    int       `json:"winnerId"`
	Reason      string    `json:"reason"`
	Board       []int     `json:"board,omitempty"`
	EndedAt     time.Time `json:"endedAt"`
}

func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}
}

func HandleListGames(reg *registry.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		waiting := reg.ListWaiting()
		games := make([]WaitingGameResponse, 0, len(waiting))
		for _, g := range waiting {
			games = append(games, WaitingGameResponse{
				GameCode:    g.Code,
				CreatorName: g.CreatorName,
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(games); err != nil {
			log.Error("failed to encode game list: %v", err)
			http.Error(w, "Failed to encode game list", http.StatusInternalServerError)
			return
		}
	}
}

func HandleListHistory(repository repositories.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := defaultHistoryLimit
		if v := r.URL.Query().Get("limit"); v != "" {
			parsed, err := strconv.Atoi(v)
			if err != nil || parsed < 1 {
				http.Error(w, "Invalid limit", http.StatusBadRequest)
				return
			}
			limit = parsed
		}
		if limit > maxHistoryLimit {
			limit = maxHistoryLimit
		}

		records, err := repository.ListGameRecords(r.Context(), limit)
		if err != nil {
			log.Error("failed to list game records: %v", err)
			http.Error(w, "Failed to list game records", http.StatusInternalServerError)
			return
		}

		out := make([]GameRecordResponse, 0, len(records))
		for _, record := range records {
			resp := GameRecordResponse{
				Code:        record.Code,
				Difficulty:  record.Difficulty,
				Player1Name: record.Player1Name,
				Player2Name: record.Player2Name,
				Score1:      record.Score1,
				Score2:      record.Score2,
				WinnerID:    record.WinnerID,
				Reason:      record.Reason,
				EndedAt:     record.EndedAt,
			}
			if len(record.Board) > 0 {
				grid, err := repositories.DecodeBoardSnapshot(record.Board)
				if err != nil {
					log.Warn("failed to decode board snapshot for game %s: %v", record.Code, err)
				} else {
					resp.Board = grid
				}
			}
			out = append(out, resp)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if err := json.NewEncoder(w).Encode(out); err != nil {
			log.Error("failed to encode game records: %v", err)
			http.Error(w, "Failed to encode game records", http.StatusInternalServerError)
			return
		}
	}
}

package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/safecoders/leetboard/internal/model"
)

// LeaderboardServiceInterface はリーダーボードハンドラーが必要とするサービスインターフェース。
type LeaderboardServiceInterface interface {
	GetLeaderboard(ctx context.Context) (*model.Leaderboard, error)
}

// LeaderboardHandler はリーダーボードのHTTPハンドラー。
type LeaderboardHandler struct {
	service LeaderboardServiceInterface
}

// NewLeaderboardHandler はLeaderboardHandlerを生成する。
func NewLeaderboardHandler(service LeaderboardServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{service: service}
}

// leaderboardRowResponse はリーダーボード1行のAPIレスポンス。
type leaderboardRowResponse struct {
	UserID           string     `json:"userId"`
	Name             string     `json:"name"`
	LeetCodeHandle   string     `json:"leetcodeUsername"`
	CumulativePoints int        `json:"points"`
	SolvedToday      bool       `json:"solvedToday"`
	LastUpdated      *time.Time `json:"lastUpdated"`
}

// dailyProblemResponse はデイリー問題のAPIレスポンス。
type dailyProblemResponse struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// leaderboardResponse はリーダーボード全体のAPIレスポンス。
type leaderboardResponse struct {
	Users        []leaderboardRowResponse `json:"users"`
	DailyProblem *dailyProblemResponse    `json:"dailyProblem"`
}

// GetLeaderboard は現在のリーダーボードを返す。
// GET /api/leaderboard
func (h *LeaderboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.GetLeaderboard(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := leaderboardResponse{
		Users: make([]leaderboardRowResponse, len(board.Rows)),
	}
	for i, row := range board.Rows {
		resp.Users[i] = leaderboardRowResponse{
			UserID:           row.UserID,
			Name:             row.Name,
			LeetCodeHandle:   row.LeetCodeHandle,
			CumulativePoints: row.CumulativePoints,
			SolvedToday:      row.SolvedToday,
			LastUpdated:      row.LastUpdated,
		}
	}
	if board.DailyProblem != nil {
		resp.DailyProblem = &dailyProblemResponse{
			Slug:  board.DailyProblem.Slug,
			Title: board.DailyProblem.Title,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

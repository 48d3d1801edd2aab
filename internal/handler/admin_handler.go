package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/safecoders/leetboard/internal/model"
)

// ProblemServiceInterface は管理ハンドラーが必要とするデイリー問題サービスのインターフェース。
type ProblemServiceInterface interface {
	SetDailyProblem(ctx context.Context, slug, title string) (*model.DailyProblem, error)
}

// AdminServiceInterface は管理ハンドラーが必要とする管理サービスのインターフェース。
type AdminServiceInterface interface {
	ResetPoints(ctx context.Context) (int, error)
	Stats(ctx context.Context) (*model.Stats, error)
}

// AdminHandler は管理者操作のHTTPハンドラー。
type AdminHandler struct {
	problemService ProblemServiceInterface
	adminService   AdminServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(problemService ProblemServiceInterface, adminService AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		problemService: problemService,
		adminService:   adminService,
	}
}

// setDailyProblemRequest はデイリー問題設定リクエストのボディ。
type setDailyProblemRequest struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// statsResponse は統計情報のAPIレスポンス。
type statsResponse struct {
	TotalUsers     int `json:"totalUsers"`
	SubmittedToday int `json:"submittedToday"`
}

// SetDailyProblem はデイリー問題を設定し、全ユーザーの当日フラグをクリアする。
// POST /api/admin/daily-problem
func (h *AdminHandler) SetDailyProblem(w http.ResponseWriter, r *http.Request) {
	var req setDailyProblemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("リクエストボディの解析に失敗しました。"))
		return
	}

	problem, err := h.problemService.SetDailyProblem(r.Context(), req.Slug, req.Title)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, dailyProblemResponse{
		Slug:  problem.Slug,
		Title: problem.Title,
	})
}

// ResetPoints は管理者以外の全ユーザーのポイントをリセットする。
// POST /api/admin/reset-points
func (h *AdminHandler) ResetPoints(w http.ResponseWriter, r *http.Request) {
	count, err := h.adminService.ResetPoints(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Stats は統計情報を返す。
// GET /api/admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminService.Stats(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		TotalUsers:     stats.TotalUsers,
		SubmittedToday: stats.SubmittedToday,
	})
}

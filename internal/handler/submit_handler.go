package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/safecoders/leetboard/internal/middleware"
	"github.com/safecoders/leetboard/internal/model"
)

// SubmissionServiceInterface は提出ハンドラーが必要とするサービスインターフェース。
type SubmissionServiceInterface interface {
	Submit(ctx context.Context, principal *model.Principal, targetUserID string) (*model.SubmitResult, error)
}

// SubmitHandler は解答提出のHTTPハンドラー。
type SubmitHandler struct {
	service SubmissionServiceInterface
}

// NewSubmitHandler はSubmitHandlerを生成する。
func NewSubmitHandler(service SubmissionServiceInterface) *SubmitHandler {
	return &SubmitHandler{service: service}
}

// submitResponse は提出結果のAPIレスポンス。
// 受理されなかった場合はrank/pointsEarnedを省略する。
type submitResponse struct {
	Accepted         bool `json:"accepted"`
	Rank             int  `json:"rank,omitempty"`
	PointsEarned     int  `json:"pointsEarned,omitempty"`
	CumulativePoints int  `json:"points,omitempty"`
}

// Submit は指定ユーザーの解答提出を処理する。
// POST /api/users/{id}/submit
func (h *SubmitHandler) Submit(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	targetUserID := chi.URLParam(r, "id")
	if targetUserID == "" {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewInvalidRequestError("ユーザーIDを指定してください。"))
		return
	}

	result, err := h.service.Submit(r.Context(), principal, targetUserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{
		Accepted:         result.Accepted,
		Rank:             result.Rank,
		PointsEarned:     result.PointsEarned,
		CumulativePoints: result.CumulativePoints,
	})
}

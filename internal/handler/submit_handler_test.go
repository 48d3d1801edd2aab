package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/safecoders/leetboard/internal/middleware"
	"github.com/safecoders/leetboard/internal/model"
)

type mockSubmissionService struct {
	submitFn func(ctx context.Context, principal *model.Principal, targetUserID string) (*model.SubmitResult, error)
}

func (m *mockSubmissionService) Submit(ctx context.Context, principal *model.Principal, targetUserID string) (*model.SubmitResult, error) {
	return m.submitFn(ctx, principal, targetUserID)
}

// newSubmitRequest はchiのURLパラメータとプリンシパルを設定したリクエストを組み立てる。
func newSubmitRequest(t *testing.T, userID string, principal *model.Principal) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/users/"+userID+"/submit", nil)

	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", userID)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)

	if principal != nil {
		ctx = middleware.ContextWithPrincipal(ctx, principal)
	}
	return req.WithContext(ctx)
}

// TestSubmitHandler_Accepted は受理された提出で順位とポイントが返ることを検証する。
func TestSubmitHandler_Accepted(t *testing.T) {
	principal := &model.Principal{UserID: "user-1", Role: model.RoleMember}
	service := &mockSubmissionService{
		submitFn: func(ctx context.Context, p *model.Principal, targetUserID string) (*model.SubmitResult, error) {
			if p.UserID != "user-1" {
				t.Errorf("principal.UserID = %s, want user-1", p.UserID)
			}
			if targetUserID != "user-1" {
				t.Errorf("targetUserID = %s, want user-1", targetUserID)
			}
			return &model.SubmitResult{
				Accepted:         true,
				Rank:             1,
				PointsEarned:     100,
				CumulativePoints: 250,
			}, nil
		},
	}
	h := NewSubmitHandler(service)

	w := httptest.NewRecorder()
	h.Submit(w, newSubmitRequest(t, "user-1", principal))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var resp submitResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if !resp.Accepted {
		t.Error("accepted = false, want true")
	}
	if resp.Rank != 1 || resp.PointsEarned != 100 || resp.CumulativePoints != 250 {
		t.Errorf("resp = %+v, want rank=1 pointsEarned=100 points=250", resp)
	}
}

// TestSubmitHandler_NotAccepted は未受理の提出でrank等が省略されることを検証する。
func TestSubmitHandler_NotAccepted(t *testing.T) {
	principal := &model.Principal{UserID: "user-1", Role: model.RoleMember}
	service := &mockSubmissionService{
		submitFn: func(ctx context.Context, p *model.Principal, targetUserID string) (*model.SubmitResult, error) {
			return &model.SubmitResult{Accepted: false}, nil
		},
	}
	h := NewSubmitHandler(service)

	w := httptest.NewRecorder()
	h.Submit(w, newSubmitRequest(t, "user-1", principal))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&raw); err != nil {
		t.Fatalf("レスポンスのデコードに失敗: %v", err)
	}
	if string(raw["accepted"]) != "false" {
		t.Errorf("accepted = %s, want false", raw["accepted"])
	}
	if _, ok := raw["rank"]; ok {
		t.Error("未受理時はrankを省略すべき")
	}
	if _, ok := raw["pointsEarned"]; ok {
		t.Error("未受理時はpointsEarnedを省略すべき")
	}
}

// TestSubmitHandler_NoPrincipal はプリンシパルなしで401となることを検証する。
func TestSubmitHandler_NoPrincipal(t *testing.T) {
	called := false
	service := &mockSubmissionService{
		submitFn: func(ctx context.Context, p *model.Principal, targetUserID string) (*model.SubmitResult, error) {
			called = true
			return nil, nil
		},
	}
	h := NewSubmitHandler(service)

	w := httptest.NewRecorder()
	h.Submit(w, newSubmitRequest(t, "user-1", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	if called {
		t.Error("未認証時はサービスを呼ぶべきではない")
	}
}

// TestSubmitHandler_StatusMapping はサービスエラーごとのHTTPステータスを検証する。
func TestSubmitHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "他ユーザーへの提出は403",
			serviceErr: model.NewForbiddenError(),
			wantStatus: http.StatusForbidden,
			wantCode:   model.ErrCodeForbidden,
		},
		{
			name:       "存在しないユーザーは404",
			serviceErr: model.NewUserNotFoundError("user-x"),
			wantStatus: http.StatusNotFound,
			wantCode:   model.ErrCodeUserNotFound,
		},
		{
			name:       "解答済みは409",
			serviceErr: model.NewAlreadySolvedError(),
			wantStatus: http.StatusConflict,
			wantCode:   model.ErrCodeAlreadySolved,
		},
		{
			name:       "デイリー問題未設定は409",
			serviceErr: model.NewNoActiveProblemError(),
			wantStatus: http.StatusConflict,
			wantCode:   model.ErrCodeNoActiveProblem,
		},
		{
			name:       "ストア競合は503",
			serviceErr: model.NewStoreConflictError(),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   model.ErrCodeStoreConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockSubmissionService{
				submitFn: func(ctx context.Context, p *model.Principal, targetUserID string) (*model.SubmitResult, error) {
					return nil, tt.serviceErr
				},
			}
			h := NewSubmitHandler(service)

			principal := &model.Principal{UserID: "user-1", Role: model.RoleMember}
			w := httptest.NewRecorder()
			h.Submit(w, newSubmitRequest(t, "user-1", principal))

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}

			var resp apiErrorResponse
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("レスポンスのデコードに失敗: %v", err)
			}
			if resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

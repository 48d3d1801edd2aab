package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/safecoders/leetboard/internal/model"
)

// --- モック ---

type mockResolver struct {
	resolveFn func(ctx context.Context, sessionID string) (*model.Principal, error)
}

func (m *mockResolver) ResolvePrincipal(ctx context.Context, sessionID string) (*model.Principal, error) {
	return m.resolveFn(ctx, sessionID)
}

// --- セッションミドルウェアのテスト ---

// TestSessionMiddleware_ValidSession は有効なセッションで認可主体が注入されることを検証する。
func TestSessionMiddleware_ValidSession(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, sessionID string) (*model.Principal, error) {
			if sessionID != "valid-session" {
				t.Errorf("sessionID = %s, want valid-session", sessionID)
			}
			return &model.Principal{UserID: "user-1", Role: model.RoleMember}, nil
		},
	}

	var captured *model.Principal
	handler := NewSessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, err := PrincipalFromContext(r.Context())
		if err != nil {
			t.Errorf("PrincipalFromContext がエラーを返した: %v", err)
		}
		captured = principal
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "valid-session"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if captured == nil || captured.UserID != "user-1" {
		t.Errorf("principal = %+v", captured)
	}
}

// TestSessionMiddleware_NoCookie はCookieがない場合に401となることを検証する。
func TestSessionMiddleware_NoCookie(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, sessionID string) (*model.Principal, error) {
			t.Error("Cookieなしでリゾルバが呼ばれてしまった")
			return nil, nil
		},
	}

	handler := NewSessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("未認証リクエストがハンドラーに到達してしまった")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("エラーレスポンスのデコードに失敗: %v", err)
	}
	if body.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %s, want %s", body.Code, model.ErrCodeUnauthorized)
	}
}

// TestSessionMiddleware_InvalidSession は無効なセッションで401となることを検証する。
func TestSessionMiddleware_InvalidSession(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, sessionID string) (*model.Principal, error) {
			return nil, nil
		},
	}

	handler := NewSessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("無効なセッションがハンドラーに到達してしまった")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "expired"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// TestSessionMiddleware_ResolverError はリゾルバのエラーで401となることを検証する。
func TestSessionMiddleware_ResolverError(t *testing.T) {
	resolver := &mockResolver{
		resolveFn: func(ctx context.Context, sessionID string) (*model.Principal, error) {
			return nil, errors.New("db down")
		},
	}

	handler := NewSessionMiddleware(resolver)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("エラー時にハンドラーに到達してしまった")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/test", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "whatever"})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- 管理者ミドルウェアのテスト ---

// TestRequireAdminMiddleware_AdminPasses は管理者がハンドラーに到達することを検証する。
func TestRequireAdminMiddleware_AdminPasses(t *testing.T) {
	handler := NewRequireAdminMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reset-points", nil)
	ctx := ContextWithPrincipal(req.Context(), &model.Principal{UserID: "admin-1", Role: model.RoleAdmin})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req.WithContext(ctx))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

// TestRequireAdminMiddleware_MemberForbidden は一般メンバーが403になることを検証する。
func TestRequireAdminMiddleware_MemberForbidden(t *testing.T) {
	handler := NewRequireAdminMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("一般メンバーが管理者ハンドラーに到達してしまった")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reset-points", nil)
	ctx := ContextWithPrincipal(req.Context(), &model.Principal{UserID: "user-1", Role: model.RoleMember})
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req.WithContext(ctx))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", w.Code, http.StatusForbidden)
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("エラーレスポンスのデコードに失敗: %v", err)
	}
	if body.Code != model.ErrCodeForbidden {
		t.Errorf("code = %s, want %s", body.Code, model.ErrCodeForbidden)
	}
}

// TestRequireAdminMiddleware_NoPrincipal は認可主体がない場合に401となることを検証する。
func TestRequireAdminMiddleware_NoPrincipal(t *testing.T) {
	handler := NewRequireAdminMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("未認証リクエストがハンドラーに到達してしまった")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/reset-points", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
}

// --- コンテキストヘルパーのテスト ---

// TestPrincipalFromContext_NotSet は未設定のコンテキストでエラーとなることを検証する。
func TestPrincipalFromContext_NotSet(t *testing.T) {
	if _, err := PrincipalFromContext(context.Background()); err == nil {
		t.Fatal("未設定のコンテキストでエラーが返されるべき")
	}
}

// TestContextWithPrincipal_RoundTrip は注入した認可主体が取得できることを検証する。
func TestContextWithPrincipal_RoundTrip(t *testing.T) {
	want := &model.Principal{UserID: "user-1", Role: model.RoleMember}
	ctx := ContextWithPrincipal(context.Background(), want)

	got, err := PrincipalFromContext(ctx)
	if err != nil {
		t.Fatalf("PrincipalFromContext がエラーを返した: %v", err)
	}
	if got.UserID != want.UserID || got.Role != want.Role {
		t.Errorf("principal = %+v, want %+v", got, want)
	}
}

package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// acListResponse はテスト用のGraphQLレスポンスを組み立てる。
func acListResponse(slugs ...string) map[string]any {
	list := make([]map[string]string, 0, len(slugs))
	for _, slug := range slugs {
		list = append(list, map[string]string{
			"titleSlug": slug,
			"timestamp": "1756684800",
		})
	}
	return map[string]any{
		"data": map[string]any{
			"recentAcSubmissionList": list,
		},
	}
}

func TestNewClient_ReturnsNonNil(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(http.DefaultClient, logger, "", 0)
	if c == nil {
		t.Fatal("NewClient は nil を返してはならない")
	}
	if c.endpoint != defaultEndpoint {
		t.Errorf("endpoint = %s, want %s", c.endpoint, defaultEndpoint)
	}
	if c.recentLimit != defaultRecentLimit {
		t.Errorf("recentLimit = %d, want %d", c.recentLimit, defaultRecentLimit)
	}
}

func TestClient_HasSolved_SlugInRecentList(t *testing.T) {
	// テスト用HTTPサーバー: 直近AC提出一覧を返す
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("HTTPメソッド = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %s, want application/json", ct)
		}

		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("リクエストボディのデコードに失敗: %v", err)
		}
		if req.Variables["username"] != "alice" {
			t.Errorf("username = %v, want alice", req.Variables["username"])
		}
		if req.Variables["limit"] != float64(20) {
			t.Errorf("limit = %v, want 20", req.Variables["limit"])
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(acListResponse("valid-anagram", "two-sum", "lru-cache"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	solved, err := c.HasSolved(context.Background(), "alice", "two-sum")
	if err != nil {
		t.Fatalf("HasSolved がエラーを返した: %v", err)
	}
	if !solved {
		t.Error("一覧に含まれるslugは解答済みと判定されるべき")
	}
}

func TestClient_HasSolved_SlugNotInRecentList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(acListResponse("valid-anagram", "lru-cache"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	solved, err := c.HasSolved(context.Background(), "alice", "two-sum")
	if err != nil {
		t.Fatalf("HasSolved がエラーを返した: %v", err)
	}
	if solved {
		t.Error("一覧に含まれないslugは未解答と判定されるべき")
	}
}

func TestClient_HasSolved_EmptyList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(acListResponse())
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	solved, err := c.HasSolved(context.Background(), "alice", "two-sum")
	if err != nil {
		t.Fatalf("HasSolved がエラーを返した: %v", err)
	}
	if solved {
		t.Error("AC提出がないユーザーは未解答と判定されるべき")
	}
}

func TestClient_HasSolved_NullList_UnknownUser(t *testing.T) {
	// ユーザーが存在しない場合、recentAcSubmissionListはnullになる
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"recentAcSubmissionList":null}}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	solved, err := c.HasSolved(context.Background(), "no-such-user", "two-sum")
	if err != nil {
		t.Fatalf("HasSolved がエラーを返した: %v", err)
	}
	if solved {
		t.Error("存在しないユーザーは未解答と判定されるべき")
	}
}

func TestClient_HasSolved_GraphQLError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"errors":[{"message":"That user does not exist."}]}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	_, err := c.HasSolved(context.Background(), "alice", "two-sum")
	if err == nil {
		t.Fatal("GraphQLエラー時にエラーが返されるべき")
	}
}

func TestClient_HasSolved_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	_, err := c.HasSolved(context.Background(), "alice", "two-sum")
	if err == nil {
		t.Fatal("HTTPエラー時にエラーが返されるべき")
	}
}

func TestClient_HasSolved_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	_, err := c.HasSolved(context.Background(), "alice", "two-sum")
	if err == nil {
		t.Fatal("不正JSONレスポンス時にエラーが返されるべき")
	}
}

func TestClient_HasSolved_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Second)
		w.Write([]byte("{}"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // 即座にキャンセル

	_, err := c.HasSolved(ctx, "alice", "two-sum")
	if err == nil {
		t.Fatal("キャンセルされたコンテキストでエラーが返されるべき")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("context.Canceled エラーであるべき: got %v", err)
	}
}

func TestClient_HasSolved_LogsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 20)

	_, _ = c.HasSolved(context.Background(), "alice", "two-sum")

	logOutput := buf.String()
	if !strings.Contains(logOutput, "ERROR") {
		t.Errorf("APIエラー時にERRORレベルのログが記録されるべき: %s", logOutput)
	}
}

func TestClient_HasSolved_CustomRecentLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("リクエストボディのデコードに失敗: %v", err)
		}
		if req.Variables["limit"] != float64(5) {
			t.Errorf("limit = %v, want 5", req.Variables["limit"])
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(acListResponse())
	}))
	defer server.Close()

	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(server.Client(), logger, server.URL, 5)

	if _, err := c.HasSolved(context.Background(), "alice", "two-sum"); err != nil {
		t.Fatalf("HasSolved がエラーを返した: %v", err)
	}
}

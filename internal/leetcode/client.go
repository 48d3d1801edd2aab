// Package leetcode はLeetCode GraphQL APIとの連携機能を提供する。
// ユーザーの最近のAC提出一覧から、デイリー問題の解答確認を行う。
package leetcode

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
)

const (
	// defaultEndpoint はLeetCode GraphQL APIのエンドポイント。
	defaultEndpoint = "https://leetcode.com/graphql"
	// defaultRecentLimit は1回の照会で取得する直近AC提出の件数。
	defaultRecentLimit = 20
)

// recentAcSubmissionsQuery はユーザーの直近AC提出一覧を取得するGraphQLクエリ。
const recentAcSubmissionsQuery = `query recentAcSubmissions($username: String!, $limit: Int!) {
  recentAcSubmissionList(username: $username, limit: $limit) {
    titleSlug
    timestamp
  }
}`

// graphqlRequest はGraphQLリクエストボディを表す。
type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

// graphqlResponse はrecentAcSubmissionsクエリのレスポンスを表す。
// ユーザーが存在しない場合、recentAcSubmissionListはnullになる。
type graphqlResponse struct {
	Data struct {
		RecentAcSubmissionList []struct {
			TitleSlug string `json:"titleSlug"`
			Timestamp string `json:"timestamp"`
		} `json:"recentAcSubmissionList"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

// Client はLeetCode GraphQL APIのクライアント。
// 外部APIへの問い合わせをレートリミッタで抑制する。
type Client struct {
	httpClient  *http.Client
	logger      *slog.Logger
	limiter     *rate.Limiter
	endpoint    string // テスト用にエンドポイントを差し替え可能
	recentLimit int
}

// NewClient はClient の新しいインスタンスを生成する。
// endpoint が空の場合は本番エンドポイントを使用する。
func NewClient(httpClient *http.Client, logger *slog.Logger, endpoint string, recentLimit int) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if recentLimit <= 0 {
		recentLimit = defaultRecentLimit
	}
	return &Client{
		httpClient: httpClient,
		logger:     logger,
		// 外部APIへの負荷を抑えるため毎秒2件、バースト5件まで
		limiter:     rate.NewLimiter(rate.Limit(2), 5),
		endpoint:    endpoint,
		recentLimit: recentLimit,
	}
}

// HasSolved は指定ハンドルのユーザーがtitleSlugの問題を最近ACしたかを返す。
// 直近のAC提出一覧（最大recentLimit件）にtitleSlugが含まれれば解答済みとみなす。
// API呼び出しの失敗時はエラーを返す（呼び出し元が未解答として扱うかを判断する）。
func (c *Client) HasSolved(ctx context.Context, username, titleSlug string) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("レートリミッタの待機に失敗しました: %w", err)
	}

	// GraphQLリクエストボディ構築
	reqBody, err := json.Marshal(graphqlRequest{
		Query: recentAcSubmissionsQuery,
		Variables: map[string]any{
			"username": username,
			"limit":    c.recentLimit,
		},
	})
	if err != nil {
		return false, fmt.Errorf("リクエストボディの生成に失敗しました: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return false, fmt.Errorf("HTTPリクエストの作成に失敗しました: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Leetboard/1.0 Daily Challenge Tracker")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("LeetCode APIの呼び出しに失敗しました",
			slog.String("error", err.Error()),
			slog.String("username", username),
		)
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("LeetCode APIがエラーステータスを返しました",
			slog.Int("http_status", resp.StatusCode),
			slog.String("username", username),
		)
		return false, fmt.Errorf("LeetCode APIがステータス %d を返しました", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("レスポンスボディの読み取りに失敗しました: %w", err)
	}

	var result graphqlResponse
	if err := json.Unmarshal(body, &result); err != nil {
		c.logger.Error("LeetCode APIのレスポンスのパースに失敗しました",
			slog.String("error", err.Error()),
		)
		return false, fmt.Errorf("レスポンスJSONのパースに失敗しました: %w", err)
	}

	if len(result.Errors) > 0 {
		c.logger.Error("LeetCode APIがGraphQLエラーを返しました",
			slog.String("message", result.Errors[0].Message),
			slog.String("username", username),
		)
		return false, fmt.Errorf("LeetCode APIがGraphQLエラーを返しました: %s", result.Errors[0].Message)
	}

	for _, submission := range result.Data.RecentAcSubmissionList {
		if submission.TitleSlug == titleSlug {
			return true, nil
		}
	}

	return false, nil
}

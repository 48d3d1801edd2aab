package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/safecoders/leetboard/internal/metrics"
	"github.com/safecoders/leetboard/internal/middleware"
)

// Pinger はヘルスチェックに必要なデータベース接続のインターフェース。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	PrincipalResolver middleware.PrincipalResolver
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter

	// 監視
	DB              Pinger
	MetricsGatherer prometheus.Gatherer

	// サービス
	AuthService        AuthServiceInterface
	AuthConfig         AuthHandlerConfig
	LeaderboardService LeaderboardServiceInterface
	SubmissionService  SubmissionServiceInterface
	ProblemService     ProblemServiceInterface
	AdminService       AdminServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → CORS → Logging →（認証ルートのみ）Session → RateLimit(General)
//
// リーダーボードと認証エンドポイントは未認証でもアクセスできる。
// 提出には提出専用レート制限、管理者ルートにはRequireAdminを追加する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	boardHandler := NewLeaderboardHandler(deps.LeaderboardService)
	submitHandler := NewSubmitHandler(deps.SubmissionService)
	adminHandler := NewAdminHandler(deps.ProblemService, deps.AdminService)

	// --- 認証不要のルート ---

	r.Get("/health", newHealthHandler(deps.DB))
	r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.MetricsGatherer))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	// リーダーボードは公開
	r.Get("/api/leaderboard", boardHandler.GetLeaderboard)

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.PrincipalResolver))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 解答提出（提出専用レート制限を追加）
		r.With(deps.RateLimiter.SubmitMiddleware()).
			Post("/api/users/{id}/submit", submitHandler.Submit)

		// 管理者専用ルート
		r.Route("/api/admin", func(r chi.Router) {
			r.Use(middleware.NewRequireAdminMiddleware())

			r.Post("/daily-problem", adminHandler.SetDailyProblem)
			r.Post("/reset-points", adminHandler.ResetPoints)
			r.Get("/stats", adminHandler.Stats)
		})
	})

	return r
}

// newHealthHandler はデータベース接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// Package submission は解答提出の検証とランク確定のドメインロジックを提供する。
package submission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/safecoders/leetboard/internal/metrics"
	"github.com/safecoders/leetboard/internal/model"
	"github.com/safecoders/leetboard/internal/repository"
)

// SolveChecker は外部APIによる解答確認のインターフェース。
type SolveChecker interface {
	HasSolved(ctx context.Context, username, titleSlug string) (bool, error)
}

// Service は提出処理のサービス層。
// 権限確認、外部APIによる解答確認、ランク確定までの一連の流れを担う。
type Service struct {
	userRepo       repository.UserRepository
	rankRepo       repository.RankRepository
	problemRepo    repository.ProblemRepository
	checker        SolveChecker
	collector      metrics.MetricsCollector
	logger         *slog.Logger
	checkerTimeout time.Duration
	maxRetries     int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	rankRepo repository.RankRepository,
	problemRepo repository.ProblemRepository,
	checker SolveChecker,
	collector metrics.MetricsCollector,
	logger *slog.Logger,
	checkerTimeout time.Duration,
	maxRetries int,
) *Service {
	return &Service{
		userRepo:       userRepo,
		rankRepo:       rankRepo,
		problemRepo:    problemRepo,
		checker:        checker,
		collector:      collector,
		logger:         logger,
		checkerTimeout: checkerTimeout,
		maxRetries:     maxRetries,
	}
}

// Submit は対象ユーザーの解答提出を処理する。
// LeetCode APIで解答を確認できた場合のみランクを確定し、獲得ポイントを返す。
// 解答が確認できない場合（API失敗を含む）はAccepted=falseを返し、台帳は変更しない。
func (s *Service) Submit(ctx context.Context, principal *model.Principal, targetUserID string) (*model.SubmitResult, error) {
	if principal == nil {
		return nil, model.NewUnauthorizedError()
	}
	if !principal.CanSubmitFor(targetUserID) {
		s.collector.RecordSubmissionRejected("forbidden")
		return nil, model.NewForbiddenError()
	}

	user, err := s.userRepo.FindByID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		s.collector.RecordSubmissionRejected("user_not_found")
		return nil, model.NewUserNotFoundError(targetUserID)
	}

	entry, err := s.rankRepo.FindByUserID(ctx, targetUserID)
	if err != nil {
		return nil, fmt.Errorf("台帳エントリの取得に失敗しました: %w", err)
	}
	if entry == nil {
		s.collector.RecordSubmissionRejected("user_not_found")
		return nil, model.NewUserNotFoundError(targetUserID)
	}
	if entry.SolvedToday {
		s.collector.RecordSubmissionRejected("already_solved")
		return nil, model.NewAlreadySolvedError()
	}

	problem, err := s.problemRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("デイリー問題の取得に失敗しました: %w", err)
	}
	if problem == nil {
		s.collector.RecordSubmissionRejected("no_active_problem")
		return nil, model.NewNoActiveProblemError()
	}

	// 外部APIによる解答確認。失敗時は未解答として扱い、台帳は変更しない。
	solved := s.checkSolved(ctx, user.LeetCodeHandle, problem.Slug)
	if !solved {
		s.collector.RecordSubmissionRejected("not_solved")
		return &model.SubmitResult{Accepted: false}, nil
	}

	result, err := s.claimWithRetry(ctx, targetUserID)
	if err != nil {
		return nil, err
	}

	s.collector.RecordSubmissionAccepted(result.Rank)
	s.logger.Info("解答を受理しました",
		slog.String("user_id", targetUserID),
		slog.String("problem_slug", problem.Slug),
		slog.Int("rank", result.Rank),
		slog.Int("points_earned", result.PointsEarned),
	)

	return &model.SubmitResult{
		Accepted:         true,
		Rank:             result.Rank,
		PointsEarned:     result.PointsEarned,
		CumulativePoints: result.CumulativePoints,
	}, nil
}

// checkSolved はLeetCode APIで解答の有無を確認する。
// タイムアウトとAPI障害は未解答として扱う。
func (s *Service) checkSolved(ctx context.Context, handle, slug string) bool {
	checkCtx, cancel := context.WithTimeout(ctx, s.checkerTimeout)
	defer cancel()

	start := time.Now()
	solved, err := s.checker.HasSolved(checkCtx, handle, slug)
	s.collector.RecordCheckerLatency(time.Since(start))

	if err != nil {
		s.collector.RecordCheckerFailure()
		s.logger.Warn("解答確認APIの呼び出しに失敗しました（未解答として扱います）",
			slog.String("handle", handle),
			slog.String("problem_slug", slug),
			slog.String("error", err.Error()),
		)
		return false
	}

	return solved
}

// claimWithRetry はランク確定を実行する。
// 直列化失敗・デッドロックは有限回リトライし、解消しなければSTORE_CONFLICTを返す。
func (s *Service) claimWithRetry(ctx context.Context, userID string) (*model.ClaimResult, error) {
	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		result, err := s.rankRepo.ClaimRank(ctx, userID, time.Now())
		if err == nil {
			return result, nil
		}
		if !isRetryableClaimError(err) {
			return nil, err
		}

		s.collector.RecordClaimConflict()
		s.logger.Warn("ランク確定トランザクションが競合しました",
			slog.String("user_id", userID),
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()),
		)
		lastErr = err
	}

	s.logger.Error("ランク確定の競合が解消できませんでした",
		slog.String("user_id", userID),
		slog.Int("max_retries", s.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, model.NewStoreConflictError()
}

// isRetryableClaimError は直列化失敗(40001)とデッドロック(40P01)を判定する。
func isRetryableClaimError(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

// Package problem はデイリー問題の管理ロジックを提供する。
package problem

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/safecoders/leetboard/internal/model"
	"github.com/safecoders/leetboard/internal/repository"
)

// Service はデイリー問題のサービス層。
type Service struct {
	problemRepo repository.ProblemRepository
	logger      *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(problemRepo repository.ProblemRepository, logger *slog.Logger) *Service {
	return &Service{
		problemRepo: problemRepo,
		logger:      logger,
	}
}

// Active は現在のデイリー問題を返す。未設定の場合はnilを返す。
func (s *Service) Active(ctx context.Context) (*model.DailyProblem, error) {
	problem, err := s.problemRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("デイリー問題の取得に失敗しました: %w", err)
	}
	return problem, nil
}

// SetDailyProblem はデイリー問題を置き換え、全ユーザーの当日フラグをクリアする。
// タイトルが空の場合はslugをそのまま使用する。
// 置き換えとフラグクリアは単一トランザクションで行われる。
func (s *Service) SetDailyProblem(ctx context.Context, slug, title string) (*model.DailyProblem, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, model.NewInvalidRequestError("問題のslugを指定してください。")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = slug
	}

	problem := &model.DailyProblem{
		Slug:        slug,
		Title:       title,
		ActivatedAt: time.Now(),
	}

	if err := s.problemRepo.ReplaceAndClearSolved(ctx, problem); err != nil {
		return nil, fmt.Errorf("デイリー問題の設定に失敗しました: %w", err)
	}

	s.logger.Info("デイリー問題を設定しました",
		slog.String("slug", slug),
		slog.String("title", title),
	)

	return problem, nil
}

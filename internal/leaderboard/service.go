package leaderboard

import (
	"context"
	"fmt"

	"github.com/safecoders/leetboard/internal/model"
	"github.com/safecoders/leetboard/internal/repository"
)

// Service はリーダーボード取得のサービス層。
type Service struct {
	rankRepo    repository.RankRepository
	problemRepo repository.ProblemRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(rankRepo repository.RankRepository, problemRepo repository.ProblemRepository) *Service {
	return &Service{
		rankRepo:    rankRepo,
		problemRepo: problemRepo,
	}
}

// GetLeaderboard は現在のリーダーボードとデイリー問題を返す。
// デイリー問題が未設定の場合、DailyProblemはnilになる。
func (s *Service) GetLeaderboard(ctx context.Context) (*model.Leaderboard, error) {
	rows, err := s.rankRepo.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("台帳スナップショットの取得に失敗しました: %w", err)
	}

	problem, err := s.problemRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("デイリー問題の取得に失敗しました: %w", err)
	}

	return &model.Leaderboard{
		Rows:         SortRows(rows),
		DailyProblem: problem,
	}, nil
}

// Package admin は管理者操作のドメインロジックを提供する。
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/safecoders/leetboard/internal/model"
	"github.com/safecoders/leetboard/internal/repository"
)

// Service は管理者操作のサービス層。
type Service struct {
	rankRepo repository.RankRepository
	logger   *slog.Logger
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(rankRepo repository.RankRepository, logger *slog.Logger) *Service {
	return &Service{
		rankRepo: rankRepo,
		logger:   logger,
	}
}

// ResetPoints は管理者以外の全ユーザーの累計ポイントを0にする。
// 当日の解答フラグには触れない。リセットした件数を返す。
func (s *Service) ResetPoints(ctx context.Context) (int, error) {
	count, err := s.rankRepo.ResetPoints(ctx)
	if err != nil {
		return 0, fmt.Errorf("ポイントリセットに失敗しました: %w", err)
	}

	s.logger.Info("全ユーザーのポイントをリセットしました",
		slog.Int("count", count),
	)

	return count, nil
}

// Stats は管理者以外のユーザーの集計値を返す。
func (s *Service) Stats(ctx context.Context) (*model.Stats, error) {
	stats, err := s.rankRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("統計の取得に失敗しました: %w", err)
	}
	return stats, nil
}

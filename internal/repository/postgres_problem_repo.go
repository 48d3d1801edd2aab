package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/safecoders/leetboard/internal/model"
)

// PostgresProblemRepo はPostgreSQLを使用したデイリー問題リポジトリ。
// daily_problems テーブルは id = 1 のシングルトン行のみを持つ。
type PostgresProblemRepo struct {
	db *sql.DB
}

// NewPostgresProblemRepo はPostgresProblemRepoを生成する。
func NewPostgresProblemRepo(db *sql.DB) *PostgresProblemRepo {
	return &PostgresProblemRepo{db: db}
}

// Get は現在のデイリー問題を取得する。未設定の場合はnilを返す。
func (r *PostgresProblemRepo) Get(ctx context.Context) (*model.DailyProblem, error) {
	problem := &model.DailyProblem{}
	err := r.db.QueryRowContext(ctx,
		`SELECT slug, title, activated_at FROM daily_problems WHERE id = 1`,
	).Scan(&problem.Slug, &problem.Title, &problem.ActivatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily problem: %w", err)
	}

	return problem, nil
}

// ReplaceAndClearSolved はデイリー問題の置き換えと全台帳エントリの
// solved_today クリアを単一トランザクションで行う。
// シングルトン行を FOR UPDATE でロックしてから更新するため、
// 進行中のランク確定トランザクションと順序付けられる。
func (r *PostgresProblemRepo) ReplaceAndClearSolved(ctx context.Context, problem *model.DailyProblem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 既存行があればロック。ランク確定と同じ直列化点を使う。
	var existing int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM daily_problems WHERE id = 1 FOR UPDATE`,
	).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return fmt.Errorf("failed to lock daily problem: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO daily_problems (id, slug, title, activated_at)
		 VALUES (1, $1, $2, $3)
		 ON CONFLICT (id) DO UPDATE
		 SET slug = EXCLUDED.slug,
		     title = EXCLUDED.title,
		     activated_at = EXCLUDED.activated_at`,
		problem.Slug, problem.Title, problem.ActivatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert daily problem: %w", err)
	}

	// 全エントリの当日フラグをクリア。ポイントには触れない。
	_, err = tx.ExecContext(ctx,
		`UPDATE rank_entries
		 SET solved_today = false, last_updated = NULL, updated_at = $1`,
		problem.ActivatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to clear solved flags: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit daily problem replacement: %w", err)
	}

	return nil
}

// compile-time interface check
var _ ProblemRepository = (*PostgresProblemRepo)(nil)

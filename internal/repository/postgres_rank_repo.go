package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/safecoders/leetboard/internal/model"
)

// PostgresRankRepo はPostgreSQLを使用したランキング台帳リポジトリ。
type PostgresRankRepo struct {
	db *sql.DB
}

// NewPostgresRankRepo はPostgresRankRepoを生成する。
func NewPostgresRankRepo(db *sql.DB) *PostgresRankRepo {
	return &PostgresRankRepo{db: db}
}

// FindByUserID は指定ユーザーの台帳エントリを取得する。見つからない場合はnilを返す。
func (r *PostgresRankRepo) FindByUserID(ctx context.Context, userID string) (*model.RankEntry, error) {
	entry := &model.RankEntry{}
	var lastUpdated sql.NullTime
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, cumulative_points, solved_today, last_updated, updated_at
		 FROM rank_entries WHERE user_id = $1`,
		userID,
	).Scan(&entry.UserID, &entry.CumulativePoints, &entry.SolvedToday, &lastUpdated, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find rank entry: %w", err)
	}
	if lastUpdated.Valid {
		entry.LastUpdated = &lastUpdated.Time
	}

	return entry, nil
}

// ClaimRank は解答確定を単一トランザクションで処理する。
//
// daily_problems のシングルトン行を FOR UPDATE でロックすることで、
// 同一デイリー問題に対する順位割り当てを直列化する。ロック取得後に
// solved_today を再確認するため、事前チェックとの間に割り込んだ
// 別の確定があっても二重加算は起きない。順位は「ロック保持中に
// 数えた解答済みユーザー数 + 1」で、同一問題内で 1..K の順列になる。
func (r *PostgresRankRepo) ClaimRank(ctx context.Context, userID string, now time.Time) (*model.ClaimResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// 1. デイリー問題のシングルトン行をロック（順位割り当ての直列化点）
	var problemID int
	err = tx.QueryRowContext(ctx,
		`SELECT id FROM daily_problems WHERE id = 1 FOR UPDATE`,
	).Scan(&problemID)
	if err == sql.ErrNoRows {
		return nil, model.NewNoActiveProblemError()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock daily problem: %w", err)
	}

	// 2. ロック保持下で solved_today を再確認
	var solved bool
	err = tx.QueryRowContext(ctx,
		`SELECT solved_today FROM rank_entries WHERE user_id = $1 FOR UPDATE`,
		userID,
	).Scan(&solved)
	if err == sql.ErrNoRows {
		return nil, model.NewUserNotFoundError(userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read rank entry: %w", err)
	}
	if solved {
		return nil, model.NewAlreadySolvedError()
	}

	// 3. 解答済みユーザー数から順位とポイントを確定
	var solvedCount int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM rank_entries WHERE solved_today = true`,
	).Scan(&solvedCount)
	if err != nil {
		return nil, fmt.Errorf("failed to count solved entries: %w", err)
	}

	rank := solvedCount + 1
	points := model.PointsForRank(rank)

	// 4. 台帳エントリを更新
	var cumulative int
	err = tx.QueryRowContext(ctx,
		`UPDATE rank_entries
		 SET solved_today = true,
		     last_updated = $2,
		     cumulative_points = cumulative_points + $3,
		     updated_at = $2
		 WHERE user_id = $1
		 RETURNING cumulative_points`,
		userID, now, points,
	).Scan(&cumulative)
	if err != nil {
		return nil, fmt.Errorf("failed to update rank entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rank claim: %w", err)
	}

	return &model.ClaimResult{
		Rank:             rank,
		PointsEarned:     points,
		CumulativePoints: cumulative,
	}, nil
}

// Snapshot は全台帳エントリをユーザー情報と結合して返す。
// 並べ替えはリーダーボードビルダーが行うため、順序は規定しない。
func (r *PostgresRankRepo) Snapshot(ctx context.Context) ([]model.LeaderboardRow, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT u.id, u.name, u.leetcode_handle, u.role,
		        e.cumulative_points, e.solved_today, e.last_updated
		 FROM rank_entries e
		 JOIN users u ON u.id = e.user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query rank snapshot: %w", err)
	}
	defer rows.Close()

	var result []model.LeaderboardRow
	for rows.Next() {
		var row model.LeaderboardRow
		var lastUpdated sql.NullTime
		if err := rows.Scan(
			&row.UserID, &row.Name, &row.LeetCodeHandle, &row.Role,
			&row.CumulativePoints, &row.SolvedToday, &lastUpdated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan rank snapshot row: %w", err)
		}
		if lastUpdated.Valid {
			row.LastUpdated = &lastUpdated.Time
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rank snapshot: %w", err)
	}

	return result, nil
}

// ClearSolvedToday は全エントリの solved_today を false、last_updated をNULLに戻す。
// cumulative_points には触れない。
func (r *PostgresRankRepo) ClearSolvedToday(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE rank_entries
		 SET solved_today = false, last_updated = NULL, updated_at = now()`,
	)
	if err != nil {
		return fmt.Errorf("failed to clear solved flags: %w", err)
	}
	return nil
}

// ResetPoints は管理者以外の全エントリの cumulative_points を0にする。
// 更新した件数を返す。単一UPDATE文のため全件更新か0件かのどちらかになる。
func (r *PostgresRankRepo) ResetPoints(ctx context.Context) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`UPDATE rank_entries e
		 SET cumulative_points = 0, updated_at = now()
		 FROM users u
		 WHERE u.id = e.user_id AND u.role <> 'admin'`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to reset points: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}

	return int(affected), nil
}

// Stats は管理者以外のエントリの集計値を返す。
func (r *PostgresRankRepo) Stats(ctx context.Context) (*model.Stats, error) {
	stats := &model.Stats{}
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE e.solved_today)
		 FROM rank_entries e
		 JOIN users u ON u.id = e.user_id
		 WHERE u.role <> 'admin'`,
	).Scan(&stats.TotalUsers, &stats.SubmittedToday)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate stats: %w", err)
	}
	return stats, nil
}

// compile-time interface check
var _ RankRepository = (*PostgresRankRepo)(nil)

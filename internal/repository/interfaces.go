// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/safecoders/leetboard/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// FindByHandle はLeetCodeハンドルでユーザーを検索する。見つからない場合はnilを返す。
	FindByHandle(ctx context.Context, handle string) (*model.User, error)

	// CreateWithRankEntry はユーザーとランキング台帳エントリを
	// 同一トランザクションで作成する。
	CreateWithRankEntry(ctx context.Context, user *model.User) error
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID string) error
}

// RankRepository はランキング台帳の永続化インターフェース。
// 台帳の変更はこのインターフェースの操作を通じてのみ行われる。
type RankRepository interface {
	// FindByUserID は指定ユーザーの台帳エントリを取得する。見つからない場合はnilを返す。
	FindByUserID(ctx context.Context, userID string) (*model.RankEntry, error)

	// ClaimRank は解答確定を単一トランザクションで処理する。
	// デイリー問題のシングルトン行をロックして順位の割り当てを直列化し、
	// solved_today の再確認、解答済みユーザー数のカウント、
	// エントリの更新（solved_today=true、last_updated=now、ポイント加算）を
	// 原子的に行う。同一問題内で割り当てられる順位は重複しない。
	// 問題未設定の場合は NO_ACTIVE_PROBLEM、確定済みの場合は
	// ALREADY_SOLVED のAPIErrorを返す。
	ClaimRank(ctx context.Context, userID string, now time.Time) (*model.ClaimResult, error)

	// Snapshot は全台帳エントリをユーザー情報と結合して返す。
	// 順序は規定しない。並べ替えはリーダーボードビルダーが行う。
	Snapshot(ctx context.Context) ([]model.LeaderboardRow, error)

	// ClearSolvedToday は全エントリの solved_today を false、last_updated を
	// NULL に戻す。cumulative_points には触れない。
	// 管理者を含む全ユーザーが対象（管理者は表示側で除外する）。
	ClearSolvedToday(ctx context.Context) error

	// ResetPoints は管理者以外の全エントリの cumulative_points を0にする。
	// solved_today と last_updated には触れない。更新した件数を返す。
	ResetPoints(ctx context.Context) (int, error)

	// Stats は管理者以外のエントリの集計値を返す。
	Stats(ctx context.Context) (*model.Stats, error)
}

// ProblemRepository はデイリー問題シングルトンの永続化インターフェース。
type ProblemRepository interface {
	// Get は現在のデイリー問題を取得する。未設定の場合はnilを返す。
	Get(ctx context.Context) (*model.DailyProblem, error)

	// ReplaceAndClearSolved はデイリー問題の置き換えと全台帳エントリの
	// solved_today クリアを単一トランザクションで行う。
	// 外部から観測可能な状態として、全エントリがリセットされるか
	// 1件もされないかのどちらかになる。
	ReplaceAndClearSolved(ctx context.Context, problem *model.DailyProblem) error
}

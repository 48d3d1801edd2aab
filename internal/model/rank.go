package model

import "time"

// PointsForRank は確定解答順位から獲得ポイントを算出する純粋関数。
// 1位=100、2位=95、3位=90と5点刻みで減少し、下限は10点。
func PointsForRank(rank int) int {
	points := 100 - (rank-1)*5
	if points < 10 {
		return 10
	}
	return points
}

// RankEntry はユーザーごとのランキング台帳エントリを表す。Userと1:1。
// CumulativePoints は明示的なリセットを除き単調非減少。
// SolvedToday が true のとき、LastUpdated は必ず現在のデイリー問題の
// 有効期間内に設定されている。
type RankEntry struct {
	UserID           string
	CumulativePoints int
	SolvedToday      bool
	LastUpdated      *time.Time
	UpdatedAt        time.Time
}

// DailyProblem は現在有効なデイリー問題を表すシングルトン。
// 管理者の設定操作によってのみ置き換えられる。
type DailyProblem struct {
	Slug        string
	Title       string
	ActivatedAt time.Time
}

// ClaimResult はランク確定処理の結果を表す。
// Rank は同一デイリー問題内での確定解答順位（1始まり）。
type ClaimResult struct {
	Rank             int
	PointsEarned     int
	CumulativePoints int
}

// SubmitResult は提出処理の結果を表す。
// Accepted が false の場合、解答が確認できなかったことを示し、
// 順位・ポイントのフィールドは意味を持たない。
type SubmitResult struct {
	Accepted         bool
	Rank             int
	PointsEarned     int
	CumulativePoints int
}

// LeaderboardRow はランキング台帳エントリとユーザー情報を結合した1行。
// リーダーボードビルダーの入力となるスナップショット要素。
type LeaderboardRow struct {
	UserID           string
	Name             string
	LeetCodeHandle   string
	Role             Role
	CumulativePoints int
	SolvedToday      bool
	LastUpdated      *time.Time
}

// Leaderboard は表示用の順位付きランキングと有効な問題をまとめたもの。
type Leaderboard struct {
	Rows         []LeaderboardRow
	DailyProblem *DailyProblem
}

// Stats は管理者向けの集計値。管理者以外のエントリを対象とする。
type Stats struct {
	TotalUsers     int
	SubmittedToday int
}

// Package leaderboard はリーダーボードの構築ロジックを提供する。
package leaderboard

import (
	"sort"

	"github.com/safecoders/leetboard/internal/model"
)

// SortRows は台帳スナップショットをリーダーボード表示順に並べ替えて返す。
// 管理者の行は除外する。順序は累計ポイントの降順、同点は当日の確定時刻の
// 昇順（早い者が上）、未確定の行は最後。残る同点はユーザーIDの昇順で安定させる。
// 入力スライスは変更しない。
func SortRows(rows []model.LeaderboardRow) []model.LeaderboardRow {
	result := make([]model.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		if row.Role == model.RoleAdmin {
			continue
		}
		result = append(result, row)
	}

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if a.CumulativePoints != b.CumulativePoints {
			return a.CumulativePoints > b.CumulativePoints
		}
		switch {
		case a.LastUpdated != nil && b.LastUpdated != nil:
			if !a.LastUpdated.Equal(*b.LastUpdated) {
				return a.LastUpdated.Before(*b.LastUpdated)
			}
		case a.LastUpdated != nil:
			return true
		case b.LastUpdated != nil:
			return false
		}
		return a.UserID < b.UserID
	})

	return result
}

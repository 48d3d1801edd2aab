// Package model はドメインモデルを定義する。
package model

import "time"

// Role はユーザーの権限区分を表す。
type Role string

const (
	// RoleMember は一般メンバー。ランキングの対象となる。
	RoleMember Role = "member"
	// RoleAdmin は管理者。デイリー問題の設定とリセット操作を行える。
	// ランキングおよび統計の集計からは除外される。
	RoleAdmin Role = "admin"
)

// User はサービス利用ユーザーを表す。
// LeetCodeHandle は外部ジャッジプラットフォーム上のユーザー名で、一意。
type User struct {
	ID             string
	Email          string
	Name           string
	LeetCodeHandle string
	PasswordHash   string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsAdmin はユーザーが管理者かどうかを返す。
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal は認証済みリクエストの主体を表す。
// セッションミドルウェアがリクエストコンテキストに注入し、
// コアはここに含まれる情報以外から権限を導出しない。
type Principal struct {
	UserID string
	Role   Role
}

// CanSubmitFor は対象ユーザーへの提出権限があるかを返す。
// 本人による提出、または管理者による代理提出のみを許可する。
func (p Principal) CanSubmitFor(targetUserID string) bool {
	return p.UserID == targetUserID || p.Role == RoleAdmin
}

// Session はユーザーのログインセッションを表す。
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

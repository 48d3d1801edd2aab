// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, ranking, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeUserNotFound       = "USER_NOT_FOUND"
	ErrCodeAlreadySolved      = "ALREADY_SOLVED"
	ErrCodeNoActiveProblem    = "NO_ACTIVE_PROBLEM"
	ErrCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	ErrCodeDuplicateHandle    = "DUPLICATE_HANDLE"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeInvalidEmailDomain = "INVALID_EMAIL_DOMAIN"
	ErrCodeStoreConflict      = "STORE_CONFLICT"
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
)

// NewUnauthorizedError は認証が必要なことを示すエラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewForbiddenError は権限不足エラーを生成する。
func NewForbiddenError() *APIError {
	return &APIError{
		Code:     ErrCodeForbidden,
		Message:  "この操作を行う権限がありません。",
		Category: "auth",
		Action:   "自分のアカウントに対してのみ操作できます。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "auth",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewAlreadySolvedError は当日すでに解答確定済みの場合のエラーを生成する。
func NewAlreadySolvedError() *APIError {
	return &APIError{
		Code:     ErrCodeAlreadySolved,
		Message:  "今日の問題はすでに解答済みです。",
		Category: "ranking",
		Action:   "明日の問題をお待ちください。",
	}
}

// NewNoActiveProblemError はデイリー問題が未設定の場合のエラーを生成する。
func NewNoActiveProblemError() *APIError {
	return &APIError{
		Code:     ErrCodeNoActiveProblem,
		Message:  "デイリー問題がまだ設定されていません。",
		Category: "ranking",
		Action:   "管理者が問題を設定するまでお待ちください。",
	}
}

// NewDuplicateEmailError はメールアドレスが登録済みの場合のエラーを生成する。
func NewDuplicateEmailError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  "このメールアドレスはすでに登録されています。",
		Category: "validation",
		Action:   "ログインするか、別のメールアドレスを使用してください。",
	}
}

// NewDuplicateHandleError はLeetCodeハンドルが登録済みの場合のエラーを生成する。
func NewDuplicateHandleError(handle string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateHandle,
		Message:  fmt.Sprintf("このLeetCodeユーザー名はすでに使用されています: %s", handle),
		Category: "validation",
		Action:   "自分のLeetCodeユーザー名を確認してください。",
	}
}

// NewInvalidCredentialsError は認証情報が一致しない場合のエラーを生成する。
// メールアドレスの存在有無を区別しないメッセージを返す。
func NewInvalidCredentialsError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCredentials,
		Message:  "メールアドレスまたはパスワードが正しくありません。",
		Category: "auth",
		Action:   "入力内容を確認して再度お試しください。",
	}
}

// NewInvalidEmailDomainError は許可されていないメールドメインのエラーを生成する。
func NewInvalidEmailDomainError(domain string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmailDomain,
		Message:  fmt.Sprintf("メールアドレスは @%s ドメインである必要があります。", domain),
		Category: "validation",
		Action:   "組織のメールアドレスで登録してください。",
	}
}

// NewInvalidRequestError はリクエスト内容の不備を示すエラーを生成する。
func NewInvalidRequestError(message string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  message,
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewStoreConflictError はランク確定処理の競合が解消できなかった場合のエラーを生成する。
// 有限回のリトライ後にのみ呼び出し元へ伝搬される。
func NewStoreConflictError() *APIError {
	return &APIError{
		Code:     ErrCodeStoreConflict,
		Message:  "提出処理が混み合っています。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// Package auth はパスワード認証とセッション管理を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/safecoders/leetboard/internal/model"
	"github.com/safecoders/leetboard/internal/repository"
)

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge      int    // セッション有効期間（秒）
	AllowedEmailDomain string // 空の場合はドメイン制限なし
}

// RegisterInput は新規登録のリクエスト内容を表す。
type RegisterInput struct {
	Email          string
	Name           string
	LeetCodeHandle string
	Password       string
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	config      ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		config:      config,
	}
}

// Register は新規ユーザーを登録し、セッションを発行する。
// ユーザーとランキング台帳エントリは同一トランザクションで作成される。
func (s *Service) Register(ctx context.Context, input RegisterInput) (*model.User, *model.Session, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	handle := strings.TrimSpace(input.LeetCodeHandle)

	if email == "" || name == "" || handle == "" || input.Password == "" {
		return nil, nil, model.NewInvalidRequestError("メールアドレス、名前、LeetCodeユーザー名、パスワードは必須です。")
	}
	if len(input.Password) < 8 {
		return nil, nil, model.NewInvalidRequestError("パスワードは8文字以上にしてください。")
	}

	// 組織ドメインの確認（設定されている場合のみ）
	if s.config.AllowedEmailDomain != "" {
		if !strings.HasSuffix(email, "@"+s.config.AllowedEmailDomain) {
			return nil, nil, model.NewInvalidEmailDomainError(s.config.AllowedEmailDomain)
		}
	}

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if existing != nil {
		return nil, nil, model.NewDuplicateEmailError()
	}

	existing, err = s.userRepo.FindByHandle(ctx, handle)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by handle: %w", err)
	}
	if existing != nil {
		return nil, nil, model.NewDuplicateHandleError(handle)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:             uuid.New().String(),
		Email:          email,
		Name:           name,
		LeetCodeHandle: handle,
		PasswordHash:   string(hash),
		Role:           model.RoleMember,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.CreateWithRankEntry(ctx, user); err != nil {
		return nil, nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("new user registered",
		slog.String("user_id", user.ID),
		slog.String("leetcode_handle", handle),
	)

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	return user, session, nil
}

// Login はメールアドレスとパスワードを検証し、セッションを発行する。
// メールアドレスの存在有無で応答を区別しない。
func (s *Service) Login(ctx context.Context, email, password string) (*model.User, *model.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	session, err := s.createSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}

	slog.Info("user logged in", slog.String("user_id", user.ID))
	return user, session, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	slog.Info("user logged out", slog.String("session_id", sessionID))
	return nil
}

// GetCurrentUser はセッションから現在のユーザーを取得する。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, model.NewUnauthorizedError()
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// ResolvePrincipal はセッションIDから認可主体を解決する。
// セッションが無効な場合はnilを返す（エラーにしない）。
func (s *Service) ResolvePrincipal(ctx context.Context, sessionID string) (*model.Principal, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	return &model.Principal{UserID: user.ID, Role: user.Role}, nil
}

// createSession はセッションを作成し永続化する。
func (s *Service) createSession(ctx context.Context, userID string) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session ID: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"go-portfolio-api/internal/domain"
	"go-portfolio-api/pkg/utils"
)

// SessionTTL 固定 7 天窗口（非滑动），与 cookie MaxAge 一致
const SessionTTL = 7 * 24 * time.Hour

// AuthService 会话闸门：登录校验、会话签发/销毁、变更操作的统一守卫
type AuthService struct {
	store domain.Store
}

func NewAuthService(store domain.Store) *AuthService {
	return &AuthService{store: store}
}

// Setup 首次建号，仅在尚无管理员时可达
func (s *AuthService) Setup(ctx context.Context, username, password string) (*domain.AdminUser, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return s.store.CreateAdmin(ctx, username, hash)
}

func (s *AuthService) AdminExists(ctx context.Context) (bool, error) {
	return s.store.AdminExists(ctx)
}

// Login 用户名不存在与密码错误同样返回 ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	u, err := s.store.AdminByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !utils.CheckPassword(password, u.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	sess := domain.Session{
		Token:       newToken(),
		AdminUserID: u.ID,
		ExpiresAt:   now.Add(SessionTTL),
		CreatedAt:   now,
	}
	if err := s.store.CreateSession(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// Logout 服务端即时销毁，不依赖客户端清 cookie
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.DeleteSession(ctx, token)
}

// Authenticate 会话缺失/过期/指向已不存在的管理员 → ErrUnauthorized
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.AdminUser, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	sess, err := s.store.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.store.AdminByID(ctx, sess.AdminUserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, adminID, current, next string) error {
	u, err := s.store.AdminByID(ctx, adminID)
	if err != nil {
		return err
	}
	if u == nil || !utils.CheckPassword(current, u.Password) {
		return domain.ErrInvalidCredentials
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return err
	}
	_, err = s.store.UpdateAdminPassword(ctx, adminID, hash)
	return err
}

func (s *AuthService) SetProfileImage(ctx context.Context, adminID string, imageURL *string) (*domain.AdminUser, error) {
	return s.store.UpdateAdminProfileImage(ctx, adminID, imageURL)
}

func newToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/omuct/eat-and-go-sub000/internal/auth"
	"github.com/omuct/eat-and-go-sub000/internal/config"
	"github.com/omuct/eat-and-go-sub000/internal/datamodels/profile"
)

// ProfileService 账号注册、登录与档案管理
type ProfileService struct {
	repo profile.Repository
	jwt  *config.JWTConfig
}

func NewProfileService(repo profile.Repository, jwt *config.JWTConfig) *ProfileService {
	return &ProfileService{repo: repo, jwt: jwt}
}

func hashPassword(raw, salt string) string {
	h := sha256.Sum256([]byte(raw + salt))
	return hex.EncodeToString(h[:])
}

// Register 注册新账号，默认角色 user
func (s *ProfileService) Register(ctx context.Context, name, email, password string) (*profile.Profile, error) {
	if email == "" || password == "" {
		return nil, errors.New("メールアドレスとパスワードは必須です")
	}
	if existing, err := s.repo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, errors.New("このメールアドレスは既に登録されています")
	}
	p := &profile.Profile{
		ID:    uuid.NewString(),
		Name:  name,
		Email: email,
		Salt:  uuid.NewString(),
		Role:  profile.RoleUser,
	}
	p.Password = hashPassword(password, p.Salt)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Login 登录并返回 JWT
func (s *ProfileService) Login(ctx context.Context, email, password string) (string, *profile.Profile, error) {
	p, err := s.repo.GetByEmail(ctx, email)
	if err != nil || p == nil {
		return "", nil, errors.New("メールアドレスまたはパスワードが正しくありません")
	}
	if hashPassword(password, p.Salt) != p.Password {
		return "", nil, errors.New("メールアドレスまたはパスワードが正しくありません")
	}
	token, err := auth.GenerateToken(s.jwt, p.ID, p.Name, p.Role)
	if err != nil {
		return "", nil, err
	}
	return token, p, nil
}

// GetByID 查档案
func (s *ProfileService) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

// EnsureProfile 确保指定用户有档案记录。
// 现金下单等入口允许首次访问时自动补建，名字留给用户之后改。
func (s *ProfileService) EnsureProfile(ctx context.Context, userID, email string) (*profile.Profile, error) {
	p, err := s.repo.GetByID(ctx, userID)
	if err == nil && p != nil {
		return p, nil
	}
	p = &profile.Profile{
		ID:    userID,
		Email: email,
		Role:  profile.RoleUser,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateName 改显示名
func (s *ProfileService) UpdateName(ctx context.Context, userID, name string) error {
	p, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	p.Name = name
	p.UpdatedAt = time.Now()
	return s.repo.Update(ctx, p)
}

// SetRole 管理员调整角色
func (s *ProfileService) SetRole(ctx context.Context, actorID, targetID, role string) error {
	actor, err := s.repo.GetByID(ctx, actorID)
	if err != nil || actor.Role != profile.RoleAdmin {
		return ErrForbidden
	}
	switch role {
	case profile.RoleUser, profile.RoleStoreStaff, profile.RoleAdmin:
	default:
		return fmt.Errorf("不正なロールです: %s", role)
	}
	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	target.Role = role
	target.UpdatedAt = time.Now()
	return s.repo.Update(ctx, target)
}

// ListAll 全账号一览（后台用）
func (s *ProfileService) ListAll(ctx context.Context) ([]*profile.Profile, error) {
	return s.repo.ListAll(ctx)
}

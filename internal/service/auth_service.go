package service

import (
	"context"
	"strings"

	"vidstream-go/internal/api/dto"
	"vidstream-go/internal/config"
	"vidstream-go/internal/model"
	"vidstream-go/internal/repository"
	"vidstream-go/pkg/utils"
)

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(store *repository.Store) *AuthService {
	return &AuthService{userRepo: store.Repos().Users}
}

// Register 用户注册，新用户角色固定为 user
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	userName := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.userRepo.ExistsByNameOrEmail(ctx, userName, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName:   userName,
		Email:      email,
		FullName:   strings.TrimSpace(req.FullName),
		Password:   hashedPassword,
		Avatar:     req.Avatar,
		CoverImage: req.CoverImage,
		UserRole:   model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsConflict(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	info := toUserInfo(user)
	return &info, nil
}

// Login 用户名或邮箱登录，返回 token 数据
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.FindByLogin(ctx, strings.ToLower(strings.TrimSpace(req.Login)))
	if err != nil {
		return nil, notFoundAs(err, ErrInvalidCredentials)
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID, user.UserRole)
	if err != nil {
		return nil, err
	}

	return &dto.TokenData{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: config.GetJWT().ExpireHours * 3600,
		User:      toUserInfo(user),
	}, nil
}

// GetCurrentUser 根据用户 ID 获取用户信息
func (s *AuthService) GetCurrentUser(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.FindActive(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	info := toUserInfo(user)
	return &info, nil
}

package service

import (
	"errors"
	"skillswap_backend/internal/config"
	"skillswap_backend/internal/model"
	"skillswap_backend/internal/repository"
	"skillswap_backend/internal/util"
	"skillswap_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// RegisterInput 注册信息，IsPublic 为空时默认公开
type RegisterInput struct {
	Username     string
	Password     string
	Name         string
	Location     string
	ProfilePhoto string
	Availability string
	IsPublic     *bool
}

// AuthResult 登录/注册成功后返回的令牌和用户
type AuthResult struct {
	Token string
	User  *model.User
}

func (s *AuthService) Register(in RegisterInput) (*AuthResult, error) {
	exists, err := s.UserRepo.ExistsByUsername(in.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.ErrDuplicateResource("User", "username", in.Username)
	}

	hashedPassword, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	isPublic := true
	if in.IsPublic != nil {
		isPublic = *in.IsPublic
	}

	user := &model.User{
		Username:     in.Username,
		Password:     hashedPassword,
		Name:         in.Name,
		Location:     in.Location,
		ProfilePhoto: in.ProfilePhoto,
		Availability: in.Availability,
		IsPublic:     isPublic,
		IsAdmin:      false,
		IsActive:     true,
	}
	if err := s.UserRepo.Create(user); err != nil {
		// 并发注册同名用户时由唯一索引兜底
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, util.ErrDuplicateResource("User", "username", in.Username)
		}
		return nil, err
	}

	logger.Log.Info("User registered", zap.Uint("userID", user.ID), zap.String("username", user.Username))

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(username, password string) (*AuthResult, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, util.ErrAccountInactive
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

package service

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/artmorais77/backend-orise/internal/apierror"
	"github.com/artmorais77/backend-orise/internal/config"
	"github.com/artmorais77/backend-orise/internal/dto"
	"github.com/artmorais77/backend-orise/internal/model"
	"github.com/artmorais77/backend-orise/internal/repository"
)

type AuthService interface {
	// Register creates a store (tenant) and its first user atomically.
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
}

type authService struct {
	users repository.UserRepository
	cfg   *config.Config
}

func NewAuthService(users repository.UserRepository, cfg *config.Config) AuthService {
	return &authService{users: users, cfg: cfg}
}

func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	existing, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if existing != nil {
		return nil, apierror.Conflict("Este e-mail já está cadastrado")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	}

	txErr := runTx(ctx, s.users.DB(), func(tx *gorm.DB) error {
		store := &model.Store{Name: req.StoreName}
		if err := s.users.CreateStoreTx(tx, store); err != nil {
			return err
		}
		user.StoreID = store.ID
		return s.users.CreateTx(tx, user)
	})
	if txErr != nil {
		if repository.IsUniqueViolation(txErr) {
			return nil, apierror.Conflict("Este e-mail já está cadastrado")
		}
		return nil, apierror.Internal(txErr.Error())
	}

	return &dto.UserResponse{
		ID:      user.ID.String(),
		StoreID: user.StoreID.String(),
		Name:    user.Name,
		Email:   user.Email,
	}, nil
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}
	if user == nil {
		return nil, apierror.Validation("E-mail e/ou senha inválidos")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apierror.Validation("E-mail e/ou senha inválidos")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return nil, apierror.Internal(err.Error())
	}

	return &dto.LoginResponse{
		Token:     token,
		TokenType: "bearer",
		ExpiresIn: s.cfg.JWTExpirationHours * 3600,
		User: dto.UserResponse{
			ID:      user.ID.String(),
			StoreID: user.StoreID.String(),
			Name:    user.Name,
			Email:   user.Email,
		},
	}, nil
}

func (s *authService) generateToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"store_id": user.StoreID.String(),
		"exp":      time.Now().Add(time.Duration(s.cfg.JWTExpirationHours) * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

package usecase

import (
	"context"
	"errors"
	"fmt"

	"quill-post/internal/entity"
	"quill-post/internal/repo/persistent"
	"quill-post/pkg/jwt"
	"quill-post/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type AuthUseCase interface {
	Register(ctx context.Context, email, username, password string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	GetUser(ctx context.Context, userID string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	jwtService *jwt.Service
	logger     *logger.Logger
}

func NewAuthUseCase(userRepo persistent.UserRepository, jwtService *jwt.Service, log *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     log,
	}
}

func (uc *authUseCase) Register(ctx context.Context, email, username, password string) (*entity.User, string, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	}
	if _, err := uc.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, "", ErrUsernameTaken
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	user := &entity.User{
		Email:    email,
		Username: username,
		Password: string(hashedPassword),
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.logger.Error("failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user")
	}

	token, err := uc.jwtService.GenerateToken(user.ID)
	if err != nil {
		uc.logger.Error("failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := uc.jwtService.GenerateToken(user.ID)
	if err != nil {
		uc.logger.Error("failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

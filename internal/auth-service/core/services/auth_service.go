package services

import (
	"context"
	"time"

	"ride-sharing/internal/auth-service/core/domain/dto"
	"ride-sharing/internal/auth-service/core/domain/model"
	"ride-sharing/internal/auth-service/core/myerrors"
	"ride-sharing/internal/auth-service/core/ports"
	"ride-sharing/internal/events"
	"ride-sharing/internal/mylogger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AuthService struct {
	ctx      context.Context
	mylog    mylogger.Logger
	userRepo ports.IUserRepo
	broker   ports.IUserBroker
	tokens   *TokenManager
}

func NewAuthService(
	ctx context.Context,
	log mylogger.Logger,
	userRepo ports.IUserRepo,
	broker ports.IUserBroker,
	tokens *TokenManager,
) ports.IAuthService {
	return &AuthService{
		ctx:      ctx,
		mylog:    log,
		userRepo: userRepo,
		broker:   broker,
		tokens:   tokens,
	}
}

func (as *AuthService) Register(req dto.RegisterRequestDto) (dto.RegisterResponseDto, error) {
	log := as.mylog.Action("Register")

	if req.Username == "" || req.Password == "" {
		return dto.RegisterResponseDto{}, myerrors.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(as.ctx, 10*time.Second)
	defer cancel()

	if _, err := as.userRepo.FindByUsername(ctx, req.Username); err == nil {
		return dto.RegisterResponseDto{}, myerrors.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		log.Error("cannot hash password", err)
		return dto.RegisterResponseDto{}, err
	}

	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: string(hash),
	}
	if err := as.userRepo.Create(ctx, user); err != nil {
		log.Error("cannot create user", err)
		return dto.RegisterResponseDto{}, err
	}

	return dto.RegisterResponseDto{
		Message: "User registered successfully",
		User:    dto.UserDto{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

func (as *AuthService) Login(req dto.LoginRequestDto) (dto.LoginResponseDto, error) {
	log := as.mylog.Action("Login")

	if req.Username == "" || req.Password == "" {
		return dto.LoginResponseDto{}, myerrors.ErrInvalidInput
	}

	ctx, cancel := context.WithTimeout(as.ctx, 10*time.Second)
	defer cancel()

	user, err := as.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return dto.LoginResponseDto{}, myerrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return dto.LoginResponseDto{}, myerrors.ErrInvalidCredentials
	}

	token, err := as.tokens.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		log.Error("cannot sign token", err)
		return dto.LoginResponseDto{}, err
	}

	return dto.LoginResponseDto{
		Message:  "Login successful",
		Token:    token,
		Username: user.Username,
		Role:     user.Role,
	}, nil
}

func (as *AuthService) SetRole(token string, req dto.SetRoleRequestDto) (dto.SetRoleResponseDto, error) {
	log := as.mylog.Action("SetRole")

	claims, err := as.tokens.Parse(token)
	if err != nil {
		return dto.SetRoleResponseDto{}, err
	}
	if claims.Username != req.Username {
		return dto.SetRoleResponseDto{}, myerrors.ErrForbidden
	}
	if req.Role != "rider" && req.Role != "driver" {
		return dto.SetRoleResponseDto{}, myerrors.ErrInvalidRole
	}

	ctx, cancel := context.WithTimeout(as.ctx, 10*time.Second)
	defer cancel()

	user, err := as.userRepo.UpdateRole(ctx, req.Username, req.Role)
	if err != nil {
		return dto.SetRoleResponseDto{}, err
	}

	newToken, err := as.tokens.Sign(user.ID, user.Username, user.Role)
	if err != nil {
		log.Error("cannot sign token", err)
		return dto.SetRoleResponseDto{}, err
	}

	// Best-effort fan-out: the role change is already durable, consumers
	// must tolerate a missed or duplicated event.
	event := events.UserRoleUpdated{ID: user.ID, Username: user.Username, Role: user.Role}
	if err := as.broker.PublishJSON(ctx, events.UserEventsExchange, events.KeyUserRoleUpdated, event); err != nil {
		log.Error("cannot publish role update", err, "username", user.Username)
	}

	return dto.SetRoleResponseDto{
		Message: "Role updated successfully",
		Token:   newToken,
		User:    dto.UserDto{ID: user.ID, Username: user.Username, Role: user.Role},
	}, nil
}

func (as *AuthService) VerifyToken(token string) (dto.UserDto, error) {
	claims, err := as.tokens.Parse(token)
	if err != nil {
		return dto.UserDto{}, err
	}
	return dto.UserDto{ID: claims.ID, Username: claims.Username, Role: claims.Role}, nil
}

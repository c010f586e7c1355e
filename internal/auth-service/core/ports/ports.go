package ports

import (
	"context"

	"ride-sharing/internal/auth-service/core/domain/dto"
	"ride-sharing/internal/auth-service/core/domain/model"
)

type IUserRepo interface {
	Create(ctx context.Context, user model.User) error
	FindByUsername(ctx context.Context, username string) (model.User, error)
	UpdateRole(ctx context.Context, username, role string) (model.User, error)
}

type IUserBroker interface {
	PublishJSON(ctx context.Context, exchange, routingKey string, msg any) error
}

type IAuthService interface {
	Register(req dto.RegisterRequestDto) (dto.RegisterResponseDto, error)
	Login(req dto.LoginRequestDto) (dto.LoginResponseDto, error)
	SetRole(token string, req dto.SetRoleRequestDto) (dto.SetRoleResponseDto, error)
	VerifyToken(token string) (dto.UserDto, error)
}

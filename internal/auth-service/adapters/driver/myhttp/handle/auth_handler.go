package handle

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ride-sharing/internal/auth-service/core/domain/dto"
	"ride-sharing/internal/auth-service/core/myerrors"
	"ride-sharing/internal/auth-service/core/ports"
	"ride-sharing/internal/mylogger"
)

type AuthHandler struct {
	authService ports.IAuthService
	log         mylogger.Logger
}

func NewAuthHandler(as ports.IAuthService, log mylogger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: as,
		log:         log,
	}
}

func (ah *AuthHandler) Register() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.RegisterRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.Register(req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusCreated, res)
	}
}

func (ah *AuthHandler) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req := dto.LoginRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.Login(req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) SetRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			JsonError(w, http.StatusUnauthorized, errors.New("no token provided"))
			return
		}

		req := dto.SetRoleRequestDto{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			JsonError(w, http.StatusBadRequest, err)
			return
		}

		res, err := ah.authService.SetRole(token, req)
		if err != nil {
			JsonError(w, statusFor(err), err)
			return
		}
		jsonResponse(w, http.StatusOK, res)
	}
}

func (ah *AuthHandler) VerifyToken() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			jsonResponse(w, http.StatusUnauthorized, dto.VerifyTokenResponseDto{Valid: false})
			return
		}

		user, err := ah.authService.VerifyToken(token)
		if errors.Is(err, myerrors.ErrInvalidToken) {
			jsonResponse(w, http.StatusUnauthorized, dto.VerifyTokenResponseDto{Valid: false})
			return
		}
		if err != nil {
			JsonError(w, http.StatusInternalServerError, err)
			return
		}
		jsonResponse(w, http.StatusOK, dto.VerifyTokenResponseDto{Valid: true, User: &user})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	return token, token != ""
}

package myerrors

import "errors"

var (
	ErrInvalidInput       = errors.New("username and password are required")
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New(`invalid role, must be "rider" or "driver"`)
	ErrUserNotFound       = errors.New("user not found")
	ErrForbidden          = errors.New("you can only change your own role")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

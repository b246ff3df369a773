package domain

import "errors"

var (
	ErrNotFound           = errors.New("record not found")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotAuthenticated   = errors.New("not authenticated")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidInput       = errors.New("invalid input")
)

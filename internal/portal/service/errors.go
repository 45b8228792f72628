package service

import "errors"

var (
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidUsername    = errors.New("username must be 3-32 characters")
	ErrInvalidPassword    = errors.New("password must be at least 6 characters")
	ErrUserNotFound       = errors.New("user not found")
	ErrUnknownCity        = errors.New("unknown municipality")
	ErrCityFromIDCard     = errors.New("city is derived from the id card and cannot be changed")

	ErrUnknownService     = errors.New("unknown service")
	ErrUnknownCenter      = errors.New("unknown center")
	ErrInvalidLoad        = errors.New("arrival rate, service rate and queue must be non-negative and within limits")
	ErrTooManySimulations = errors.New("num_simulations exceeds the configured limit")
)

package user

import "errors"

var (
	ErrInvalidInitData = errors.New("invalid telegram init data")
	ErrInvalidPhone    = errors.New("phone must be a Russian mobile number")
	ErrUserNotFound    = errors.New("user not found")
)

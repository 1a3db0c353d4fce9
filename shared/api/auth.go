package api

import "github.com/itchan-dev/chanfeed/shared/domain"

type RegisterRequest struct {
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Passcode  string `json:"passcode" validate:"required"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Passcode string `json:"passcode" validate:"required"`
}

type AuthResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}

type OnlineStatusRequest struct {
	IsOnline *bool `json:"isOnline" validate:"required"`
}

package models

import "errors"

var (
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrAccountSuspended   = errors.New("account is suspended")
	ErrNotFound           = errors.New("record not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAmountBelowMinimum = errors.New("amount below plan minimum")
)

package entity

import "errors"

// Standard domain errors
var (
	ErrTokenBudgetExceeded = errors.New("token budget exceeded: daily usage limit reached")
	ErrSynthesisFailed     = errors.New("response synthesis failed")
	ErrInvalidRequest      = errors.New("invalid request parameters")
)

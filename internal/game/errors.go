package game

import "errors"

var (
	ErrInvalidStake  = errors.New("invalid stake")
	ErrInvalidChoice = errors.New("invalid choice")
)

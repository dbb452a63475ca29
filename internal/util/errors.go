package util

import "errors"

var (
	ErrContextKeyNotFound     = errors.New("context key not found")
	ErrContextKeyTypeMismatch = errors.New("context key type mismatch")
	ErrNotAStruct             = errors.New("value is not a struct")
)

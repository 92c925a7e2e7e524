package domain

import "errors"

var (
	ErrCurrencyNotFound = errors.New("currency not found")
	ErrNoConversionPath = errors.New("no conversion path")
	ErrInvalidRate      = errors.New("invalid rate")
)

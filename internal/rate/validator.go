package rate

import (
	"errors"
	"fmt"
	"strings"

	"fxconvert/internal/domain"
)

var (
	ErrFromRequired  = errors.New("from currency is required")
	ErrToRequired    = errors.New("to currency is required")
	ErrMalformedCode = errors.New("currency code must be 3 letters")
	ErrNoRates       = errors.New("at least one rate is required")
)

// CodeValidator checks the shape of currency codes coming from outside. Which
// codes exist is decided by the converter, not here.
type CodeValidator struct{}

func NewValidator() *CodeValidator { return &CodeValidator{} }

// NormalizeCode trims and upper-cases a code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (v *CodeValidator) ValidateCodes(from, to string) error {
	if from == "" {
		return ErrFromRequired
	}
	if to == "" {
		return ErrToRequired
	}
	if !isCode(from) {
		return fmt.Errorf("%w: %q", ErrMalformedCode, from)
	}
	if !isCode(to) {
		return fmt.Errorf("%w: %q", ErrMalformedCode, to)
	}
	return nil
}

func (v *CodeValidator) ValidateRates(rates []domain.ConversionRate) error {
	if len(rates) == 0 {
		return ErrNoRates
	}
	for _, r := range rates {
		if !isCode(r.Base) {
			return fmt.Errorf("%w: %q", ErrMalformedCode, r.Base)
		}
		if !isCode(r.Quote) {
			return fmt.Errorf("%w: %q", ErrMalformedCode, r.Quote)
		}
	}
	return nil
}

func isCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, ch := range code {
		if ch < 'A' || ch > 'Z' {
			return false
		}
	}
	return true
}

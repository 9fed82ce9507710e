package validation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sandevgo/aline/internal/core"
	"github.com/sandevgo/aline/pkg/log"
)

// MaxInputLength is the largest accepted input, in characters.
const MaxInputLength = 1000

var (
	ErrEmpty       = fmt.Errorf("%w: empty", core.ErrInvalidInput)
	ErrTooLong     = fmt.Errorf("%w: too long", core.ErrInvalidInput)
	ErrBadEscape   = fmt.Errorf("%w: malformed escape sequence", core.ErrInvalidInput)
	ErrControlChar = fmt.Errorf("%w: control character", core.ErrInvalidInput)
)

type Validator struct {
	maxLength int
}

func NewValidator() *Validator {
	return &Validator{maxLength: MaxInputLength}
}

// Validate reports whether text may be matched or stored. Each rejection is
// logged at warning level with its reason.
func (v *Validator) Validate(ctx context.Context, text string) bool {
	err := v.Check(text)
	if err == nil {
		return true
	}

	evt := log.FromCtx(ctx).Warn().Err(err)
	if errors.Is(err, ErrTooLong) {
		evt = evt.Int("length", utf8.RuneCountInString(text))
	}
	evt.Msg("input rejected")
	return false
}

// Check applies the rules in order and returns the first violation.
func (v *Validator) Check(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmpty
	}

	if utf8.RuneCountInString(text) > v.maxLength {
		return ErrTooLong
	}

	decoded, err := Unescape(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadEscape, err)
	}

	for i, r := range decoded {
		if isControl(r) {
			return fmt.Errorf("%w U+%04X at offset %d", ErrControlChar, r, i)
		}
	}
	return nil
}

func isControl(r rune) bool {
	return r <= 0x1f || (r >= 0x7f && r <= 0x9f)
}

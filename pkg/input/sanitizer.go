// Package input cleans user text before it enters a thread.
package input

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxInputSize is 4KB.
	DefaultMaxInputSize = 4096
	// EnvMaxInputSize overrides the default limit.
	EnvMaxInputSize = "TENDRIL_MAX_INPUT_SIZE"
)

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
	ErrEmptyInput    = errors.New("input is empty")
)

// Sanitizer enforces a size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
type Sanitizer struct {
	MaxSize int
}

// NewSanitizer returns a Sanitizer using limit, or the environment/default
// limit when limit is zero or less.
func NewSanitizer(limit int) *Sanitizer {
	if limit <= 0 {
		limit = MaxInputSizeFromEnv()
	}
	return &Sanitizer{MaxSize: limit}
}

// Sanitize returns the cleaned input. Oversized input is rejected, not truncated.
func (s *Sanitizer) Sanitize(in string) (string, error) {
	if len(in) > s.MaxSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(in), s.MaxSize)
	}
	if !utf8.ValidString(in) {
		return "", ErrInvalidUTF8
	}

	clean := true
	for _, r := range in {
		if unsafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return in, nil
	}

	var b strings.Builder
	b.Grow(len(in))
	for _, r := range in {
		if !unsafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// SanitizeMessage is Sanitize followed by trimming; blank input yields ErrEmptyInput.
func (s *Sanitizer) SanitizeMessage(in string) (string, error) {
	out, err := s.Sanitize(in)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", ErrEmptyInput
	}
	return out, nil
}

// Sanitize cleans in with the environment/default limit.
func Sanitize(in string) (string, error) {
	return NewSanitizer(0).Sanitize(in)
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

// MaxInputSizeFromEnv reads EnvMaxInputSize, falling back to DefaultMaxInputSize.
func MaxInputSizeFromEnv() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}

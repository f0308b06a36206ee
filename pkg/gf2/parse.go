package gf2

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ParsePolynomial accepts either a sum of terms ("x^4 + x^3 + 1"), a hex
// encoding ("0x19"), a binary encoding ("0b11001") or a decimal encoding
// ("25"). Terms that repeat cancel, as they would when added.
func ParsePolynomial(s string) (*Polynomial, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidPolynomial)
	}

	switch {
	case strings.HasPrefix(s, "0x"):
		return parseDigits(s, s[2:], 16)
	case strings.HasPrefix(s, "0b"):
		return parseDigits(s, s[2:], 2)
	case strings.Contains(s, "x"):
		return parseTerms(s)
	}

	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPolynomial, s)
	}
	return FromUint64(v), nil
}

// parseDigits reads a power-of-two radix encoding without width limit.
func parseDigits(input, digits string, base int) (*Polynomial, error) {
	digits = strings.ReplaceAll(digits, "_", "")
	if digits == "" {
		return nil, fmt.Errorf("%w: %q has no digits", ErrInvalidPolynomial, input)
	}

	width := uint(1)
	if base == 16 {
		width = 4
	}

	b := bitset.New(uint(len(digits)) * width)
	for pos := 0; pos < len(digits); pos++ {
		d, err := strconv.ParseUint(digits[len(digits)-1-pos:len(digits)-pos], base, 8)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidPolynomial, input)
		}
		for k := uint(0); k < width; k++ {
			if d&(1<<k) != 0 {
				b.Set(uint(pos)*width + k)
			}
		}
	}
	return wrap(b), nil
}

func parseTerms(s string) (*Polynomial, error) {
	b := bitset.New(0)
	for _, term := range strings.Split(s, "+") {
		term = strings.ReplaceAll(term, " ", "")
		switch {
		case term == "0":
		case term == "1":
			b.Flip(0)
		case term == "x":
			b.Flip(1)
		case strings.HasPrefix(term, "x^"):
			k, err := strconv.ParseUint(term[2:], 10, 16)
			if err != nil {
				return nil, fmt.Errorf("%w: bad exponent in term %q", ErrInvalidPolynomial, term)
			}
			b.Flip(uint(k))
		default:
			return nil, fmt.Errorf("%w: unrecognized term %q", ErrInvalidPolynomial, term)
		}
	}
	return wrap(b), nil
}

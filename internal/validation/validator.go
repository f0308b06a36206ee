package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Davincible/galois/pkg/gf2n"
)

var (
	hexPattern     = regexp.MustCompile(`^0[xX][0-9a-fA-F]+$`)
	binaryPattern  = regexp.MustCompile(`^0[bB][01]+$`)
	decimalPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ParseElementValue parses a decimal, 0x hex or 0b binary literal and checks
// that it encodes an element of a width bit field.
func ParseElementValue(input string, width uint) (uint64, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, fmt.Errorf("value cannot be empty")
	}

	if strings.HasPrefix(input, "-") {
		return 0, fmt.Errorf("value cannot be negative: %s", input)
	}

	var (
		v   uint64
		err error
	)
	switch {
	case hexPattern.MatchString(input):
		v, err = strconv.ParseUint(input[2:], 16, 64)
	case binaryPattern.MatchString(input):
		v, err = strconv.ParseUint(input[2:], 2, 64)
	case decimalPattern.MatchString(input):
		v, err = strconv.ParseUint(input, 10, 64)
	default:
		return 0, fmt.Errorf("invalid value %q: expected decimal, 0x hex or 0b binary", input)
	}
	if err != nil {
		return 0, fmt.Errorf("invalid value %q: %w", input, err)
	}

	if width < 64 && v>>width != 0 {
		return 0, fmt.Errorf("%w: %s needs more than %d bits", gf2n.ErrValueOutOfRange, input, width)
	}

	return v, nil
}

// ParseByte parses a value in [0, 256).
func ParseByte(input string) (byte, error) {
	v, err := ParseElementValue(input, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

func ValidateWidth(width uint) error {
	if width < 1 || width > gf2n.MaxWidth {
		return fmt.Errorf("%w: width must be between 1 and %d (got %d)", gf2n.ErrInvalidWidth, gf2n.MaxWidth, width)
	}
	return nil
}

// ValidateTableWidth rejects fields too large to tabulate.
func ValidateTableWidth(width uint) error {
	if err := ValidateWidth(width); err != nil {
		return err
	}
	if width > gf2n.MaxEnumerableWidth {
		return fmt.Errorf("%w: tables are limited to width %d (got %d)", gf2n.ErrFieldTooLarge, gf2n.MaxEnumerableWidth, width)
	}
	return nil
}

// ValidateCayleyWidth rejects fields whose operation tables would not fit in
// memory. Single-row tables such as inverses go through ValidateTableWidth.
func ValidateCayleyWidth(width uint) error {
	if err := ValidateWidth(width); err != nil {
		return err
	}
	if width > gf2n.MaxCayleyWidth {
		return fmt.Errorf("%w: operation tables are limited to width %d (got %d)", gf2n.ErrFieldTooLarge, gf2n.MaxCayleyWidth, width)
	}
	return nil
}

// SanitizeFileName keeps artifact names to a single path element.
func SanitizeFileName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}
	if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("file name must not contain path separators: %s", name)
	}
	return name, nil
}

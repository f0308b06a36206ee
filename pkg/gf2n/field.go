// Package gf2n implements the binary extension fields GF(2^n) for n <= 64.
//
// A Field holds the width and the irreducible modulus shared by all of its
// elements. Elements are immutable values; every arithmetic step delegates to
// gf2.Polynomial and re-normalizes the result to exactly n coefficients.
package gf2n

import (
	"errors"
	"fmt"

	"github.com/Davincible/galois/pkg/gf2"
)

const (
	// MaxWidth is the widest field whose elements fit the uint64 encoding.
	MaxWidth = 64
	// MaxEnumerableWidth bounds Elements; wider fields are too large to list.
	MaxEnumerableWidth = 16
	// MaxCayleyWidth bounds full operation tables, which hold 4^n cells.
	MaxCayleyWidth = 8
)

var (
	ErrInvalidWidth     = errors.New("gf2n: invalid field width")
	ErrInvalidModulus   = errors.New("gf2n: invalid modulus")
	ErrReducibleModulus = errors.New("gf2n: modulus is not irreducible")
	ErrValueOutOfRange  = errors.New("gf2n: value out of range for field width")
	ErrFieldMismatch    = errors.New("gf2n: elements belong to different fields")
	ErrNotInvertible    = errors.New("gf2n: element has no multiplicative inverse")
	ErrFieldTooLarge    = errors.New("gf2n: field too large to enumerate")
)

// Field is GF(2^n) defined by a modulus of degree n. It is read-only after
// construction and safe to share between goroutines.
type Field struct {
	width   uint
	modulus *gf2.Polynomial
	mask    uint64
}

// NewField returns GF(2^width) reduced modulo modulus. The modulus must have
// degree exactly width. Irreducibility is not checked here; fields built on a
// reducible modulus still support Add and Mul but not Inverse.
func NewField(width uint, modulus *gf2.Polynomial) (*Field, error) {
	if width == 0 || width > MaxWidth {
		return nil, fmt.Errorf("%w: %d is outside [1, %d]", ErrInvalidWidth, width, MaxWidth)
	}
	if modulus == nil || modulus.IsZero() {
		return nil, fmt.Errorf("%w: zero polynomial", ErrInvalidModulus)
	}
	if modulus.Degree() != int(width) {
		return nil, fmt.Errorf("%w: %s has degree %d, want %d", ErrInvalidModulus, modulus, modulus.Degree(), width)
	}

	mask := ^uint64(0)
	if width < 64 {
		mask = 1<<width - 1
	}

	return &Field{
		width:   width,
		modulus: modulus,
		mask:    mask,
	}, nil
}

// NewIrreducibleField is NewField plus an irreducibility check, so every
// non-zero element of the result is invertible.
func NewIrreducibleField(width uint, modulus *gf2.Polynomial) (*Field, error) {
	f, err := NewField(width, modulus)
	if err != nil {
		return nil, err
	}
	if !f.IsIrreducible() {
		return nil, fmt.Errorf("%w: %s", ErrReducibleModulus, modulus)
	}
	return f, nil
}

// GF16 returns GF(2^4) with modulus x^4 + x^3 + 1.
func GF16() *Field {
	f, _ := NewField(4, gf2.New(1, 0, 0, 1, 1))
	return f
}

// AES returns the Rijndael field GF(2^8) with modulus x^8 + x^4 + x^3 + x + 1.
func AES() *Field {
	f, _ := NewField(8, gf2.FromUint64(0x11b))
	return f
}

func (f *Field) Width() uint { return f.width }

func (f *Field) Modulus() *gf2.Polynomial { return f.modulus }

// Order returns the number of elements, 2^n. It overflows to 0 for n = 64.
func (f *Field) Order() uint64 { return f.mask + 1 }

func (f *Field) IsIrreducible() bool {
	return f.modulus.Irreducible()
}

// Equal reports whether f and g have the same width and modulus.
func (f *Field) Equal(g *Field) bool {
	if f == g {
		return true
	}
	if f == nil || g == nil {
		return false
	}
	return f.width == g.width && f.modulus.Equal(g.modulus)
}

func (f *Field) String() string {
	return fmt.Sprintf("GF(2^%d) mod %s", f.width, f.modulus)
}

// Element returns the element encoded by v, where bit i of v is the
// coefficient of x^i.
func (f *Field) Element(v uint64) (Element, error) {
	if v&^f.mask != 0 {
		return Element{}, fmt.Errorf("%w: %d does not fit in %d bits", ErrValueOutOfRange, v, f.width)
	}
	return Element{field: f, value: v}, nil
}

// MustElement is Element for values known to be in range. It panics otherwise.
func (f *Field) MustElement(v uint64) Element {
	e, err := f.Element(v)
	if err != nil {
		panic(err)
	}
	return e
}

// FromPolynomial truncates p to its n lowest coefficients. Truncation is
// silent; coefficients of degree n and above are discarded without reduction.
// Use FromPolynomialStrict to reject them instead.
func (f *Field) FromPolynomial(p *gf2.Polynomial) Element {
	v, _ := p.Truncate(int(f.width)).Uint64()
	return Element{field: f, value: v}
}

// FromPolynomialStrict converts p, failing with ErrInvalidWidth when p has a
// non-zero coefficient at degree n or above.
func (f *Field) FromPolynomialStrict(p *gf2.Polynomial) (Element, error) {
	if !p.IsZero() && p.Degree() >= int(f.width) {
		return Element{}, fmt.Errorf("%w: %s has degree %d in a field of width %d", ErrInvalidWidth, p, p.Degree(), f.width)
	}
	return f.FromPolynomial(p), nil
}

func (f *Field) Zero() Element { return Element{field: f} }

func (f *Field) One() Element { return Element{field: f, value: 1} }

// Elements lists every element in ascending integer order.
func (f *Field) Elements() ([]Element, error) {
	if f.width > MaxEnumerableWidth {
		return nil, fmt.Errorf("%w: width %d exceeds %d", ErrFieldTooLarge, f.width, MaxEnumerableWidth)
	}
	out := make([]Element, f.Order())
	for i := range out {
		out[i] = Element{field: f, value: uint64(i)}
	}
	return out, nil
}

package gf2n

import (
	"fmt"
	"strconv"

	"github.com/Davincible/galois/pkg/gf2"
)

// Element is a member of a Field. The zero value belongs to no field and must
// not be used in arithmetic.
//
// Binary operations panic with ErrFieldMismatch when the operands come from
// different fields.
type Element struct {
	field *Field
	value uint64
}

func (e Element) Field() *Field { return e.field }

// Uint64 returns the integer encoding, always below 2^n.
func (e Element) Uint64() uint64 { return e.value }

// Polynomial returns the element as a polynomial of degree below n.
func (e Element) Polynomial() *gf2.Polynomial { return gf2.FromUint64(e.value) }

// Coefficients returns exactly n coefficients, constant term first.
func (e Element) Coefficients() []uint8 {
	out := make([]uint8, e.field.width)
	for i := range out {
		out[i] = uint8(e.value >> i & 1)
	}
	return out
}

func (e Element) IsZero() bool { return e.value == 0 }

func (e Element) IsOne() bool { return e.value == 1 }

func (e Element) Equal(o Element) bool {
	return e.value == o.value && e.field.Equal(o.field)
}

func (e Element) String() string {
	return strconv.FormatUint(e.value, 10)
}

// Format supports %x, %X, %b, %d and %v by delegating to the integer encoding.
func (e Element) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v', 's':
		fmt.Fprint(s, e.String())
	default:
		fmt.Fprintf(s, fmt.FormatString(s, verb), e.value)
	}
}

func (e Element) check(o Element) {
	if !e.field.Equal(o.field) {
		panic(fmt.Errorf("%w: %v and %v", ErrFieldMismatch, e.field, o.field))
	}
}

func (e Element) wrap(p *gf2.Polynomial) Element {
	return e.field.FromPolynomial(p)
}

// Add returns e + o. No reduction is needed since XOR never raises the degree.
func (e Element) Add(o Element) Element {
	e.check(o)
	return e.wrap(e.Polynomial().Add(o.Polynomial()))
}

// Sub returns e - o, identical to Add in characteristic 2.
func (e Element) Sub(o Element) Element {
	return e.Add(o)
}

// Mul returns e * o reduced modulo the field modulus.
func (e Element) Mul(o Element) Element {
	e.check(o)
	r, err := e.Polynomial().MulMod(o.Polynomial(), e.field.modulus)
	if err != nil {
		// unreachable: NewField rejects a zero modulus
		panic(err)
	}
	return e.wrap(r)
}

// PolyDivMod divides the underlying polynomials of e and o and returns the raw
// quotient and remainder as elements. It is polynomial long division, NOT
// field division: the result is generally not e * o^-1. Use
// e.Mul(o.Inverse()) for that.
func (e Element) PolyDivMod(o Element) (quo, rem Element, err error) {
	e.check(o)
	q, r, err := e.Polynomial().DivMod(o.Polynomial())
	if err != nil {
		return Element{}, Element{}, err
	}
	return e.wrap(q), e.wrap(r), nil
}

// Inverse returns the multiplicative inverse of e using the extended Euclidean
// algorithm. By convention the inverse of zero is zero.
//
// It panics with ErrNotInvertible if the field modulus is reducible and e
// shares a factor with it; callers are expected to use irreducible moduli.
func (e Element) Inverse() Element {
	inv, err := e.inverse()
	if err != nil {
		panic(err)
	}
	return inv
}

func (e Element) inverse() (Element, error) {
	if e.IsZero() {
		return e, nil
	}

	r1, r2 := e.field.modulus, e.Polynomial()
	t1, t2 := gf2.Zero(), gf2.One()
	for !r2.IsZero() {
		q, _, err := r1.DivMod(r2)
		if err != nil {
			return Element{}, err
		}
		r1, r2 = r2, r1.Add(q.Mul(r2))
		t1, t2 = t2, t1.Add(q.Mul(t2))
	}

	if !r1.IsOne() {
		return Element{}, fmt.Errorf("%w: gcd(%s, %s) = %s", ErrNotInvertible, e.field.modulus, e.Polynomial(), r1)
	}
	return e.wrap(t1), nil
}

// Package gf2 implements arithmetic on polynomials with coefficients in GF(2).
//
// Coefficient i of a polynomial is the coefficient of x^i, so the constant term
// sits at index 0 and maps to the least significant bit of the integer encoding.
// Polynomials are immutable: every operation returns a new value.
package gf2

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

var (
	// ErrDivisionByZero is returned when dividing by the zero polynomial.
	ErrDivisionByZero = errors.New("gf2: division by zero polynomial")
	// ErrInvalidPolynomial is returned by ParsePolynomial for malformed input.
	ErrInvalidPolynomial = errors.New("gf2: invalid polynomial")
)

// Polynomial is a polynomial over GF(2) of arbitrary degree.
//
// The zero value is the zero polynomial. The zero polynomial has degree 0 and
// length 1, matching a single zero coefficient.
type Polynomial struct {
	bits *bitset.BitSet
	// index of the highest set coefficient plus one, 0 for the zero polynomial
	size int
}

func wrap(b *bitset.BitSet) *Polynomial {
	size := 0
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		size = int(i) + 1
	}
	return &Polynomial{bits: b, size: size}
}

// Zero returns the zero polynomial.
func Zero() *Polynomial {
	return &Polynomial{}
}

// One returns the constant polynomial 1.
func One() *Polynomial {
	return Monomial(0)
}

// Monomial returns x^k.
func Monomial(k uint) *Polynomial {
	b := bitset.New(k + 1)
	b.Set(k)
	return &Polynomial{bits: b, size: int(k) + 1}
}

// New builds a polynomial from coefficients listed from the constant term
// upwards. Any non-zero coefficient is treated as 1.
func New(coeffs ...uint8) *Polynomial {
	b := bitset.New(uint(len(coeffs)))
	for i, c := range coeffs {
		if c != 0 {
			b.Set(uint(i))
		}
	}
	return wrap(b)
}

// FromUint64 maps bit i of v to the coefficient of x^i.
func FromUint64(v uint64) *Polynomial {
	return wrap(bitset.From([]uint64{v}))
}

func (p *Polynomial) each(fn func(i uint)) {
	if p.bits == nil {
		return
	}
	for i, ok := p.bits.NextSet(0); ok; i, ok = p.bits.NextSet(i + 1) {
		fn(i)
	}
}

func (p *Polynomial) clone() *bitset.BitSet {
	if p.bits == nil {
		return bitset.New(0)
	}
	return p.bits.Clone()
}

// Degree returns the degree of p. The zero polynomial reports degree 0.
func (p *Polynomial) Degree() int {
	if p.size == 0 {
		return 0
	}
	return p.size - 1
}

// Len returns the number of coefficients in the normalized form of p, which is
// always Degree()+1.
func (p *Polynomial) Len() int {
	return p.Degree() + 1
}

// IsZero reports whether p has no non-zero coefficients.
func (p *Polynomial) IsZero() bool {
	return p.size == 0
}

// IsOne reports whether p is the constant polynomial 1.
func (p *Polynomial) IsOne() bool {
	return p.size == 1
}

// Coefficient returns the coefficient of x^i.
func (p *Polynomial) Coefficient(i int) uint8 {
	if i < 0 || i >= p.size || !p.bits.Test(uint(i)) {
		return 0
	}
	return 1
}

// Coefficients returns the normalized coefficient sequence, constant term first.
func (p *Polynomial) Coefficients() []uint8 {
	out := make([]uint8, p.Len())
	p.each(func(i uint) { out[i] = 1 })
	return out
}

// Uint64 packs p into an integer. ok is false when the degree exceeds 63.
func (p *Polynomial) Uint64() (v uint64, ok bool) {
	if p.size > 64 {
		return 0, false
	}
	p.each(func(i uint) { v |= 1 << i })
	return v, true
}

// Equal reports whether p and q have identical coefficients.
func (p *Polynomial) Equal(q *Polynomial) bool {
	if p.size != q.size {
		return false
	}
	equal := true
	p.each(func(i uint) {
		if !q.bits.Test(i) {
			equal = false
		}
	})
	if !equal {
		return false
	}
	q.each(func(i uint) {
		if !p.bits.Test(i) {
			equal = false
		}
	})
	return equal
}

// Add returns p + q, the coefficient-wise XOR.
func (p *Polynomial) Add(q *Polynomial) *Polynomial {
	out := p.clone()
	q.each(func(i uint) { out.Flip(i) })
	return wrap(out)
}

// Sub returns p - q, which in characteristic 2 is the same as p + q.
func (p *Polynomial) Sub(q *Polynomial) *Polynomial {
	return p.Add(q)
}

// ShiftLeft returns p * x^k.
func (p *Polynomial) ShiftLeft(k uint) *Polynomial {
	out := bitset.New(uint(p.size) + k)
	p.each(func(i uint) { out.Set(i + k) })
	return wrap(out)
}

// Truncate drops every coefficient of degree n or higher.
func (p *Polynomial) Truncate(n int) *Polynomial {
	if n < 0 {
		n = 0
	}
	out := bitset.New(uint(n))
	p.each(func(i uint) {
		if int(i) < n {
			out.Set(i)
		}
	})
	return wrap(out)
}

// Mul returns the unreduced product p * q.
func (p *Polynomial) Mul(q *Polynomial) *Polynomial {
	out := bitset.New(uint(p.size + q.size))
	p.each(func(i uint) {
		q.each(func(j uint) { out.Flip(i + j) })
	})
	return wrap(out)
}

// MulMod returns p * q reduced modulo m.
func (p *Polynomial) MulMod(q, m *Polynomial) (*Polynomial, error) {
	_, r, err := p.Mul(q).DivMod(m)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// DivMod performs long division of p by d. The results satisfy
// p == d*quo + rem with rem of lower degree than d, or rem zero.
func (p *Polynomial) DivMod(d *Polynomial) (quo, rem *Polynomial, err error) {
	if d.IsZero() {
		return nil, nil, ErrDivisionByZero
	}

	r := p.clone()
	q := bitset.New(0)
	dd := d.Degree()
	for i := p.Degree() - dd; i >= 0; i-- {
		if !r.Test(uint(i + dd)) {
			continue
		}
		q.Set(uint(i))
		d.each(func(j uint) { r.Flip(j + uint(i)) })
	}

	return wrap(q), wrap(r), nil
}

// GCD returns the greatest common divisor of a and b. GCD(0, 0) is 0.
func GCD(a, b *Polynomial) *Polynomial {
	for !b.IsZero() {
		_, r, _ := a.DivMod(b)
		a, b = b, r
	}
	return a
}

// Irreducible reports whether p has no factors other than 1 and itself. It
// uses Ben-Or's test: p of degree n is irreducible iff
// gcd(p, x^(2^i) - x) == 1 for every 1 <= i <= n/2.
func (p *Polynomial) Irreducible() bool {
	n := p.Degree()
	if n < 1 {
		return false
	}

	x := Monomial(1)
	h := x
	for i := 1; i <= n/2; i++ {
		h, _ = h.MulMod(h, p)
		if !GCD(p, h.Add(x)).IsOne() {
			return false
		}
	}
	return true
}

// String renders p as a sum of terms, highest degree first, e.g.
// "x^5 + x^2 + x". The zero polynomial renders as "0".
func (p *Polynomial) String() string {
	if p.IsZero() {
		return "0"
	}

	terms := make([]string, 0, p.size)
	for i := p.size - 1; i >= 0; i-- {
		if !p.bits.Test(uint(i)) {
			continue
		}
		switch i {
		case 0:
			terms = append(terms, "1")
		case 1:
			terms = append(terms, "x")
		default:
			terms = append(terms, fmt.Sprintf("x^%d", i))
		}
	}
	return strings.Join(terms, " + ")
}

// Hex renders the integer encoding of p in lowercase hexadecimal with a 0x
// prefix.
func (p *Polynomial) Hex() string {
	if p.IsZero() {
		return "0x0"
	}
	var sb strings.Builder
	sb.WriteString("0x")
	for nibble := (p.size - 1) / 4; nibble >= 0; nibble-- {
		var d uint8
		for k := 0; k < 4; k++ {
			d |= p.Coefficient(nibble*4+k) << k
		}
		sb.WriteByte("0123456789abcdef"[d])
	}
	return sb.String()
}

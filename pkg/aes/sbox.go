// Package aes derives the Rijndael S-box from GF(2^8) arithmetic.
//
// Each entry is the multiplicative inverse in GF(2^8) mod x^8 + x^4 + x^3 + x + 1
// followed by the affine transform of FIPS-197 section 5.1.1.
package aes

import (
	"fmt"

	"github.com/Davincible/galois/pkg/gf2n"
)

const (
	// AffineConstant is c in y = A*b + c.
	AffineConstant byte = 0x63
	// InverseAffineConstant is the constant of the inverse map.
	InverseAffineConstant byte = 0x05
)

// AffineTransform applies the Rijndael affine map with bits indexed least
// significant first:
//
//	y_i = b_i ^ b_(i+4 mod 8) ^ b_(i+5 mod 8) ^ b_(i+6 mod 8) ^ b_(i+7 mod 8) ^ c_i
func AffineTransform(b byte) byte {
	var y byte
	for i := 0; i < 8; i++ {
		bit := bitAt(b, i) ^ bitAt(b, (i+4)%8) ^ bitAt(b, (i+5)%8) ^
			bitAt(b, (i+6)%8) ^ bitAt(b, (i+7)%8) ^ bitAt(AffineConstant, i)
		y |= bit << i
	}
	return y
}

// InverseAffineTransform undoes AffineTransform:
//
//	b_i = y_(i+2 mod 8) ^ y_(i+5 mod 8) ^ y_(i+7 mod 8) ^ d_i
func InverseAffineTransform(y byte) byte {
	var b byte
	for i := 0; i < 8; i++ {
		bit := bitAt(y, (i+2)%8) ^ bitAt(y, (i+5)%8) ^ bitAt(y, (i+7)%8) ^
			bitAt(InverseAffineConstant, i)
		b |= bit << i
	}
	return b
}

func bitAt(b byte, i int) byte {
	return b >> i & 1
}

// SBox computes substitution values over an 8 bit field.
type SBox struct {
	field *gf2n.Field
}

// New returns the standard AES S-box.
func New() *SBox {
	return &SBox{field: gf2n.AES()}
}

// NewWithField builds an S-box over a different irreducible degree 8
// modulus. The result is not AES, but has the same construction.
func NewWithField(field *gf2n.Field) (*SBox, error) {
	if field.Width() != 8 {
		return nil, fmt.Errorf("%w: S-box needs width 8, got %d", gf2n.ErrInvalidWidth, field.Width())
	}
	if !field.IsIrreducible() {
		return nil, fmt.Errorf("%w: %s", gf2n.ErrReducibleModulus, field.Modulus())
	}
	return &SBox{field: field}, nil
}

func (s *SBox) Field() *gf2n.Field { return s.field }

// Substitute returns S(b). S(0) is AffineConstant since zero maps to zero
// under the inversion convention.
func (s *SBox) Substitute(b byte) byte {
	if b == 0 {
		return AffineConstant
	}
	inv := s.field.MustElement(uint64(b)).Inverse()
	return AffineTransform(byte(inv.Uint64()))
}

// InverseSubstitute returns S^-1(y).
func (s *SBox) InverseSubstitute(y byte) byte {
	b := InverseAffineTransform(y)
	return byte(s.field.MustElement(uint64(b)).Inverse().Uint64())
}

// Table returns S(b) for every byte, indexed by b.
func (s *SBox) Table() [256]byte {
	var t [256]byte
	for b := 0; b < 256; b++ {
		t[b] = s.Substitute(byte(b))
	}
	return t
}

// InverseTable returns the inverse permutation of Table.
func (s *SBox) InverseTable() [256]byte {
	fwd := s.Table()
	var inv [256]byte
	for b, y := range fwd {
		inv[y] = byte(b)
	}
	return inv
}

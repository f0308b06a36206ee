package gf2

import (
	"math/bits"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZeroPolynomial(t *testing.T) {
	for _, z := range []*Polynomial{Zero(), New(), New(0, 0, 0), FromUint64(0), {}} {
		assert.True(t, z.IsZero())
		assert.Equal(t, 0, z.Degree())
		assert.Equal(t, 1, z.Len())
		assert.Equal(t, []uint8{0}, z.Coefficients())
		assert.Equal(t, "0", z.String())
		assert.True(t, z.Equal(Zero()))
	}
}

func TestNormalization(t *testing.T) {
	p := New(1, 0, 1, 0, 0, 0)
	assert.Equal(t, 2, p.Degree())
	assert.Equal(t, []uint8{1, 0, 1}, p.Coefficients())

	v, ok := p.Uint64()
	require.True(t, ok)
	assert.Equal(t, uint64(5), v)
}

func TestString(t *testing.T) {
	tests := []struct {
		name string
		p    *Polynomial
		want string
	}{
		{"constant", One(), "1"},
		{"linear", New(0, 1), "x"},
		{"mixed", New(0, 1, 1, 0, 0, 1), "x^5 + x^2 + x"},
		{"aes modulus", FromUint64(0x11b), "x^8 + x^4 + x^3 + x + 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.String())
		})
	}
}

func TestAdd(t *testing.T) {
	// (x^5 + x^2 + x) + (x^3 + x^2 + 1) = x^5 + x^3 + x + 1
	p1 := New(0, 1, 1, 0, 0, 1)
	p2 := New(1, 0, 1, 1)
	assert.Equal(t, "x^5 + x^3 + x + 1", p1.Add(p2).String())
	assert.True(t, p1.Sub(p2).Equal(p1.Add(p2)))

	// leading terms cancel and the result is renormalized
	p3 := New(1, 0, 0, 1)
	p4 := New(0, 1, 0, 1)
	sum := p3.Add(p4)
	assert.Equal(t, 1, sum.Degree())
	assert.Equal(t, "x + 1", sum.String())
}

func TestAddProperties(t *testing.T) {
	for a := uint64(0); a < 64; a++ {
		pa := FromUint64(a)
		require.True(t, pa.Add(pa).IsZero(), "a=%d", a)
		require.True(t, pa.Add(Zero()).Equal(pa), "a=%d", a)

		for b := uint64(0); b < 64; b++ {
			pb := FromUint64(b)
			require.True(t, pa.Add(pb).Equal(pb.Add(pa)), "a=%d b=%d", a, b)

			for c := uint64(0); c < 16; c++ {
				pc := FromUint64(c)
				require.True(t, pa.Add(pb).Add(pc).Equal(pa.Add(pb.Add(pc))), "a=%d b=%d c=%d", a, b, c)
			}
		}
	}
}

func TestMul(t *testing.T) {
	// (x + 1)(x + 1) = x^2 + 1
	assert.Equal(t, uint64(5), mustUint64(t, FromUint64(3).Mul(FromUint64(3))))
	// (x^2 + 1)(x + 1) = x^3 + x^2 + x + 1
	assert.Equal(t, uint64(15), mustUint64(t, FromUint64(5).Mul(FromUint64(3))))
	assert.True(t, FromUint64(0x53).Mul(Zero()).IsZero())
}

func TestMulDegree(t *testing.T) {
	for a := uint64(1); a < 256; a++ {
		for b := uint64(1); b < 256; b += 7 {
			pa, pb := FromUint64(a), FromUint64(b)
			prod := pa.Mul(pb)
			require.Equal(t, pa.Degree()+pb.Degree(), prod.Degree(), "a=%d b=%d", a, b)
			require.True(t, prod.Equal(pb.Mul(pa)), "a=%d b=%d", a, b)
		}
	}
}

func TestMulBeyond64Bits(t *testing.T) {
	p := Monomial(40).Add(One())
	sq := p.Mul(p)
	assert.Equal(t, 80, sq.Degree())
	assert.Equal(t, "x^80 + 1", sq.String())

	_, ok := sq.Uint64()
	assert.False(t, ok)
}

func TestDivMod(t *testing.T) {
	// (x^12 + x^7 + x^2) / (x^8 + x^4 + x^3 + x + 1)
	p6 := New(0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1)
	p7 := New(1, 1, 0, 1, 1, 0, 0, 0, 1)

	q, r, err := p6.DivMod(p7)
	require.NoError(t, err)
	assert.Equal(t, "x^4 + 1", q.String())
	assert.Equal(t, "x^5 + x^3 + x^2 + x + 1", r.String())
}

func TestDivModSmallDividend(t *testing.T) {
	q, r, err := FromUint64(0b101).DivMod(FromUint64(0x11b))
	require.NoError(t, err)
	assert.True(t, q.IsZero())
	assert.Equal(t, uint64(5), mustUint64(t, r))
}

func TestDivModByZero(t *testing.T) {
	_, _, err := FromUint64(7).DivMod(Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)

	_, err = FromUint64(7).MulMod(One(), Zero())
	assert.ErrorIs(t, err, ErrDivisionByZero)
}

func TestDivModIdentity(t *testing.T) {
	for a := uint64(0); a < 512; a++ {
		for b := uint64(1); b < 64; b++ {
			pa, pb := FromUint64(a), FromUint64(b)
			q, r, err := pa.DivMod(pb)
			require.NoError(t, err)
			require.True(t, pa.Equal(pb.Mul(q).Add(r)), "a=%d b=%d q=%s r=%s", a, b, q, r)
			require.True(t, r.IsZero() || r.Degree() < pb.Degree(), "a=%d b=%d r=%s", a, b, r)
		}
	}
}

func TestMulMod(t *testing.T) {
	// (x^5 + x^2 + x)(x^7 + x^4 + x^3 + x^2 + x) mod (x^8 + x^7 + x^5 + x^4 + 1)
	p1 := New(0, 1, 1, 0, 0, 1)
	p4 := New(0, 1, 1, 1, 1, 0, 0, 1)
	modp := New(1, 0, 0, 0, 1, 1, 0, 1, 1)

	p5, err := p1.MulMod(p4, modp)
	require.NoError(t, err)
	assert.Equal(t, "x^7 + x^6 + x^4 + x^3", p5.String())

	// 0x53 and 0xca are inverses in the AES field
	r, err := FromUint64(0x53).MulMod(FromUint64(0xca), FromUint64(0x11b))
	require.NoError(t, err)
	assert.True(t, r.IsOne())
}

func TestShiftAndTruncate(t *testing.T) {
	p := FromUint64(0b1011)
	assert.Equal(t, uint64(0b1011000), mustUint64(t, p.ShiftLeft(3)))
	assert.Equal(t, uint64(0b011), mustUint64(t, p.Truncate(3)))
	assert.True(t, p.Truncate(0).IsZero())
	assert.Equal(t, 3, p.Truncate(8).Degree())
}

func TestGCD(t *testing.T) {
	// (x + 1)(x^2 + x + 1) and (x + 1)^2 share the factor x + 1
	a := FromUint64(3).Mul(FromUint64(7))
	b := FromUint64(3).Mul(FromUint64(3))
	assert.Equal(t, "x + 1", GCD(a, b).String())
	assert.True(t, GCD(a, Zero()).Equal(a))
	assert.True(t, GCD(FromUint64(0x11b), FromUint64(0x53)).IsOne())
}

func TestIrreducible(t *testing.T) {
	irreducible := map[uint64]bool{
		2: true, 3: true,
		7:  true,
		11: true, 13: true,
		19: true, 25: true, 31: true,
		37: true, 41: true, 47: true, 55: true, 59: true, 61: true,
	}

	for v := uint64(0); v < 64; v++ {
		assert.Equal(t, irreducible[v], FromUint64(v).Irreducible(), "v=%d (%s)", v, FromUint64(v))
	}

	assert.True(t, FromUint64(0x11b).Irreducible())
	assert.False(t, Monomial(13).Add(One()).Irreducible())
}

func TestIrreducibleMatchesTrialDivision(t *testing.T) {
	for v := uint64(2); v < 1<<9; v++ {
		p := FromUint64(v)
		want := true
		for d := uint64(2); d < v && bits.Len64(d) <= bits.Len64(v)/2+1; d++ {
			if _, r, _ := p.DivMod(FromUint64(d)); r.IsZero() {
				want = false
				break
			}
		}
		require.Equal(t, want, p.Irreducible(), "v=%d (%s)", v, p)
	}
}

func TestHex(t *testing.T) {
	assert.Equal(t, "0x0", Zero().Hex())
	assert.Equal(t, "0x11b", FromUint64(0x11b).Hex())
	assert.Equal(t, "0x1"+strings.Repeat("0", 17)+"1", Monomial(72).Add(One()).Hex())
}

func mustUint64(t *testing.T, p *Polynomial) uint64 {
	t.Helper()
	v, ok := p.Uint64()
	require.True(t, ok)
	return v
}

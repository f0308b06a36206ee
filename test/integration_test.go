package test

import (
	"bytes"
	"context"
	"testing"

	"github.com/Davincible/galois/pkg/aes"
	"github.com/Davincible/galois/pkg/gf2"
	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/Davincible/galois/pkg/storage"
	"github.com/Davincible/galois/pkg/tables"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// BLAKE2b-256 of the 256 S-box bytes in index order.
const sboxDigest = "5136856b6583e2507da7fd3aba4703b63e5b003579bd53fecc00667069191418"

func TestFullWorkflow(t *testing.T) {
	ctx := context.Background()
	field := gf2n.GF16()
	builder := tables.NewBuilder(field, tables.WithWorkers(4))

	add, err := builder.Cayley(ctx, tables.OpAdd)
	require.NoError(t, err)
	mul, err := builder.Cayley(ctx, tables.OpMul)
	require.NoError(t, err)
	inverses, err := builder.Inverses(ctx)
	require.NoError(t, err)

	report := tables.Verify(add, mul, inverses)
	require.NoError(t, report.Err())

	var rendered bytes.Buffer
	require.NoError(t, tables.RenderCayley(&rendered, tables.FormatDecimal, add, mul))

	store := storage.NewArtifactStore(t.TempDir())
	_, digest, err := store.Save("table1.txt", rendered.Bytes())
	require.NoError(t, err)
	assert.Equal(t, tables.Digest(rendered.Bytes()), digest)

	loaded, err := store.Load("table1.txt")
	require.NoError(t, err)
	assert.Equal(t, rendered.Bytes(), loaded)

	t.Logf("Saved %d bytes of GF(2^4) tables, blake2b %s", len(loaded), digest)
}

func TestSBoxFromFirstPrinciples(t *testing.T) {
	field := gf2n.AES()
	sbox := aes.New()
	table := sbox.Table()

	assert.Equal(t, sboxDigest, tables.Digest(table[:]))

	// every entry is the affine image of a field inverse
	for b := 0; b < 256; b++ {
		inv := field.MustElement(uint64(b)).Inverse()
		assert.Equal(t, aes.AffineTransform(byte(inv.Uint64())), table[b], "b=0x%02x", b)
	}

	require.NoError(t, tables.VerifySBox(table, sbox.InverseTable()).Err())
}

func TestInverseAgreesWithPolynomialArithmetic(t *testing.T) {
	field := gf2n.AES()
	m := field.Modulus()

	for v := uint64(1); v < field.Order(); v++ {
		e := field.MustElement(v)
		inv := e.Inverse()

		product, err := e.Polynomial().MulMod(inv.Polynomial(), m)
		require.NoError(t, err)
		assert.True(t, product.IsOne(), "v=%#x", v)
	}
}

func TestFieldsOverEveryIrreducibleQuartic(t *testing.T) {
	ctx := context.Background()

	var irreducible []*gf2.Polynomial
	for v := uint64(0x10); v < 0x20; v++ {
		if p := gf2.FromUint64(v); p.Irreducible() {
			irreducible = append(irreducible, p)
		}
	}
	// x^4 + x + 1, x^4 + x^3 + 1, x^4 + x^3 + x^2 + x + 1
	require.Len(t, irreducible, 3)

	for _, m := range irreducible {
		t.Run(m.String(), func(t *testing.T) {
			field, err := gf2n.NewIrreducibleField(4, m)
			require.NoError(t, err)

			b := tables.NewBuilder(field)
			add, err := b.Cayley(ctx, tables.OpAdd)
			require.NoError(t, err)
			mul, err := b.Cayley(ctx, tables.OpMul)
			require.NoError(t, err)
			inverses, err := b.Inverses(ctx)
			require.NoError(t, err)

			assert.True(t, tables.Verify(add, mul, inverses).OK())
		})
	}
}

func TestReducibleModulusIsARing(t *testing.T) {
	field, err := gf2n.NewField(4, gf2.New(1, 0, 0, 0, 1))
	require.NoError(t, err)
	assert.False(t, field.IsIrreducible())

	// x + 1 divides x^4 + 1, so it has no inverse
	e := field.MustElement(0b11)
	assert.Panics(t, func() { e.Inverse() })

	_, err = aes.NewWithField(gf2n.GF16())
	assert.ErrorIs(t, err, gf2n.ErrInvalidWidth)
}

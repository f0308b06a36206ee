// Package tables builds whole-field artifacts on top of gf2n: Cayley tables
// for addition and multiplication, inverse tables, and their text renderings.
package tables

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/Davincible/galois/pkg/gf2n"
	"golang.org/x/sync/errgroup"
)

// Operation selects the binary operation tabulated by a Cayley table.
type Operation string

const (
	OpAdd Operation = "add"
	OpMul Operation = "mul"
)

var ErrUnknownOperation = errors.New("tables: unknown operation")

// ParseOperation maps user input such as "add", "+" or "mul" to an Operation.
func ParseOperation(s string) (Operation, error) {
	switch s {
	case "add", "addition", "+":
		return OpAdd, nil
	case "mul", "multiplication", "*", "x":
		return OpMul, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownOperation, s)
}

func (op Operation) Title() string {
	switch op {
	case OpAdd:
		return "Addition"
	case OpMul:
		return "Multiplication"
	}
	return string(op)
}

func (op Operation) apply(a, b gf2n.Element) (gf2n.Element, error) {
	switch op {
	case OpAdd:
		return a.Add(b), nil
	case OpMul:
		return a.Mul(b), nil
	}
	return gf2n.Element{}, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
}

// Cayley is the full operation table of a field: Cells[i][j] = i op j.
type Cayley struct {
	Field *gf2n.Field
	Op    Operation
	Cells [][]uint64
}

func (c *Cayley) Size() int { return len(c.Cells) }

func (c *Cayley) At(i, j int) uint64 { return c.Cells[i][j] }

// Builder computes tables for one field. Rows are independent, so they are
// spread across up to Workers goroutines.
type Builder struct {
	field   *gf2n.Field
	workers int
	logger  *slog.Logger
}

type Option func(*Builder)

// WithWorkers bounds the number of rows computed concurrently. Values below
// one select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(b *Builder) {
		if n > 0 {
			b.workers = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

func NewBuilder(field *gf2n.Field, opts ...Option) *Builder {
	b := &Builder{
		field:   field,
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) Field() *gf2n.Field { return b.field }

// Cayley tabulates op over every pair of field elements.
func (b *Builder) Cayley(ctx context.Context, op Operation) (*Cayley, error) {
	if _, err := ParseOperation(string(op)); err != nil {
		return nil, err
	}
	if w := b.field.Width(); w > gf2n.MaxCayleyWidth {
		return nil, fmt.Errorf("%w: %s tables are limited to width %d (got %d)", gf2n.ErrFieldTooLarge, op, gf2n.MaxCayleyWidth, w)
	}

	elems, err := b.field.Elements()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", b.field, err)
	}

	b.logger.Debug("Building Cayley table",
		"field", b.field.String(), "op", string(op), "size", len(elems), "workers", b.workers)

	cells := make([][]uint64, len(elems))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for i := range elems {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := make([]uint64, len(elems))
			for j := range elems {
				r, err := op.apply(elems[i], elems[j])
				if err != nil {
					return err
				}
				row[j] = r.Uint64()
			}
			cells[i] = row
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build %s table: %w", op, err)
	}

	return &Cayley{Field: b.field, Op: op, Cells: cells}, nil
}

// Inverses returns inv[x] = x^-1 for every element, with inv[0] = 0. The
// field modulus must be irreducible.
func (b *Builder) Inverses(ctx context.Context) ([]uint64, error) {
	if !b.field.IsIrreducible() {
		return nil, fmt.Errorf("%w: %s", gf2n.ErrReducibleModulus, b.field.Modulus())
	}

	elems, err := b.field.Elements()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate %s: %w", b.field, err)
	}

	b.logger.Debug("Building inverse table", "field", b.field.String(), "size", len(elems))

	inv := make([]uint64, len(elems))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)

	for _, chunk := range partition(len(elems), b.workers) {
		g.Go(func() error {
			for x := chunk[0]; x < chunk[1]; x++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				inv[x] = elems[x].Inverse().Uint64()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build inverse table: %w", err)
	}

	return inv, nil
}

// partition splits [0, n) into at most parts contiguous half-open ranges.
func partition(n, parts int) [][2]int {
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	out := make([][2]int, 0, parts)
	start := 0
	for p := 0; p < parts; p++ {
		end := start + (n-start)/(parts-p)
		out = append(out, [2]int{start, end})
		start = end
	}
	return out
}

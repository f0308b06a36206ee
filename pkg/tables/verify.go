package tables

import (
	"errors"
	"fmt"
)

var ErrPropertyViolated = errors.New("tables: field property violated")

// Check is the outcome of one property check over a table.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report collects the checks run by Verify.
type Report struct {
	Checks []Check `json:"checks"`
}

func (r *Report) OK() bool {
	for _, c := range r.Checks {
		if !c.Passed {
			return false
		}
	}
	return true
}

// Err joins every failed check into one error wrapping ErrPropertyViolated.
func (r *Report) Err() error {
	var errs []error
	for _, c := range r.Checks {
		if !c.Passed {
			errs = append(errs, fmt.Errorf("%w: %s: %s", ErrPropertyViolated, c.Name, c.Detail))
		}
	}
	return errors.Join(errs...)
}

func (r *Report) add(name string, detail string) {
	r.Checks = append(r.Checks, Check{Name: name, Passed: detail == "", Detail: detail})
}

// Verify checks the field laws visible in the tables: identities,
// commutativity, self-inverse addition, zero absorption, closure, and, when
// inverses is non-nil, that the inverse table is a permutation of the
// non-zero elements consistent with mul.
func Verify(add, mul *Cayley, inverses []uint64) *Report {
	r := &Report{}

	if add != nil {
		r.add("additive identity", identity(add, 0))
		r.add("addition commutative", commutative(add))
		r.add("addition closed", closed(add))
		r.add("every element is its own additive inverse", selfInverse(add))
	}

	if mul != nil {
		r.add("multiplicative identity", identity(mul, 1))
		r.add("zero absorbs multiplication", absorbs(mul))
		r.add("multiplication commutative", commutative(mul))
		r.add("multiplication closed", closed(mul))
	}

	if mul != nil && inverses != nil {
		r.add("inverse table is a permutation", permutation(inverses))
		r.add("x * inverse(x) = 1", inverseProducts(mul, inverses))
	}

	return r
}

func identity(c *Cayley, e int) string {
	if e >= c.Size() {
		return fmt.Sprintf("table has no element %d", e)
	}
	for i := 0; i < c.Size(); i++ {
		if c.At(e, i) != uint64(i) || c.At(i, e) != uint64(i) {
			return fmt.Sprintf("%d is not the identity at position %d", e, i)
		}
	}
	return ""
}

func commutative(c *Cayley) string {
	for i := 0; i < c.Size(); i++ {
		for j := i + 1; j < c.Size(); j++ {
			if c.At(i, j) != c.At(j, i) {
				return fmt.Sprintf("not commutative at (%d, %d)", i, j)
			}
		}
	}
	return ""
}

func closed(c *Cayley) string {
	for i := 0; i < c.Size(); i++ {
		for j := 0; j < c.Size(); j++ {
			if c.At(i, j) >= uint64(c.Size()) {
				return fmt.Sprintf("result %d at (%d, %d) is outside the field", c.At(i, j), i, j)
			}
		}
	}
	return ""
}

func selfInverse(c *Cayley) string {
	for i := 0; i < c.Size(); i++ {
		if c.At(i, i) != 0 {
			return fmt.Sprintf("%d + %d = %d", i, i, c.At(i, i))
		}
	}
	return ""
}

func absorbs(c *Cayley) string {
	for i := 0; i < c.Size(); i++ {
		if c.At(0, i) != 0 || c.At(i, 0) != 0 {
			return fmt.Sprintf("0 * %d is not 0", i)
		}
	}
	return ""
}

func permutation(inv []uint64) string {
	if len(inv) == 0 {
		return "inverse table is empty"
	}
	if inv[0] != 0 {
		return fmt.Sprintf("inverse of 0 is %d, want 0 by convention", inv[0])
	}

	seen := make([]bool, len(inv))
	for x := 1; x < len(inv); x++ {
		y := inv[x]
		if y == 0 || y >= uint64(len(inv)) {
			return fmt.Sprintf("inverse of %d is %d", x, y)
		}
		if seen[y] {
			return fmt.Sprintf("%d is the inverse of more than one element", y)
		}
		seen[y] = true
	}
	return ""
}

func inverseProducts(mul *Cayley, inv []uint64) string {
	if len(inv) != mul.Size() {
		return fmt.Sprintf("inverse table has %d entries, want %d", len(inv), mul.Size())
	}
	for x := 1; x < len(inv); x++ {
		if inv[x] >= uint64(len(inv)) {
			return fmt.Sprintf("inverse of %d is %d", x, inv[x])
		}
		if p := mul.At(x, int(inv[x])); p != 1 {
			return fmt.Sprintf("%d * %d = %d", x, inv[x], p)
		}
	}
	return ""
}

// VerifySBox checks a substitution table and its inverse: both are
// permutations, they undo each other, and the forward table has no fixed or
// opposite fixed points.
func VerifySBox(forward, inverse [256]byte) *Report {
	r := &Report{}

	r.add("S-box is a permutation", bytePermutation(forward))
	r.add("inverse S-box is a permutation", bytePermutation(inverse))

	var detail string
	for b := 0; b < 256 && detail == ""; b++ {
		if got := inverse[forward[b]]; got != byte(b) {
			detail = fmt.Sprintf("S^-1(S(0x%02x)) = 0x%02x", b, got)
		}
	}
	r.add("inverse S-box undoes S-box", detail)

	detail = ""
	for b := 0; b < 256 && detail == ""; b++ {
		switch forward[b] {
		case byte(b):
			detail = fmt.Sprintf("S(0x%02x) is a fixed point", b)
		case ^byte(b):
			detail = fmt.Sprintf("S(0x%02x) is an opposite fixed point", b)
		}
	}
	r.add("no fixed points", detail)

	return r
}

func bytePermutation(t [256]byte) string {
	var seen [256]bool
	for b, y := range t {
		if seen[y] {
			return fmt.Sprintf("0x%02x appears twice (again at 0x%02x)", y, b)
		}
		seen[y] = true
	}
	return ""
}

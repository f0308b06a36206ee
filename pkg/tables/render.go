package tables

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Davincible/galois/pkg/gf2n"
)

const (
	SBoxTitle        = "Table 4.3  AES S-Box: Substitution values in hexadecimal notation for input byte (xy)"
	InverseSBoxTitle = "AES Inverse S-Box: Substitution values in hexadecimal notation for input byte (xy)"

	ruleWidth = 60
)

// Format selects how table cells are printed.
type Format string

const (
	FormatDecimal Format = "dec"
	FormatHex     Format = "hex"
)

var ErrUnknownFormat = errors.New("tables: unknown format")

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "", "dec", "decimal":
		return FormatDecimal, nil
	case "hex", "hexadecimal":
		return FormatHex, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) cell(v uint64) string {
	if f == FormatHex {
		return strings.ToUpper(strconv.FormatUint(v, 16))
	}
	return strconv.FormatUint(v, 10)
}

func (f Format) width(maxValue uint64) int {
	return max(2, len(f.cell(maxValue)))
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

// RenderCayley writes the tables one after another under a single heading,
// in the layout of the classic GF(2^4) handout (table1.txt). Rules are a fixed
// 60 characters and the corner cell is one column narrower than the row
// labels, exactly as in the handout:
//
//	   |  0 |  1 | ...
//	------------------------------------------------------------
//	  0 |  0 |  1 | ...
func RenderCayley(w io.Writer, format Format, tables ...*Cayley) error {
	if len(tables) == 0 {
		return nil
	}

	field := tables[0].Field
	var sb strings.Builder

	sb.WriteString(cayleyHeading(field))
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	for k, t := range tables {
		if !t.Field.Equal(field) {
			return fmt.Errorf("%w: %s and %s", gf2n.ErrFieldMismatch, field, t.Field)
		}
		if k > 0 {
			sb.WriteString("\n")
			sb.WriteString(strings.Repeat("=", ruleWidth))
			sb.WriteString("\n\n")
		}
		writeCayley(&sb, format, t)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func cayleyHeading(f *gf2n.Field) string {
	kind := "irreducible"
	if !f.IsIrreducible() {
		kind = "reducible"
	}
	return fmt.Sprintf("GF(2^%d) Tables with %s polynomial %s", f.Width(), kind, f.Modulus())
}

func writeCayley(sb *strings.Builder, format Format, t *Cayley) {
	cw := format.width(uint64(t.Size() - 1))

	var header strings.Builder
	header.WriteString(strings.Repeat(" ", cw+1) + "|")
	for j := 0; j < t.Size(); j++ {
		header.WriteString(" " + pad(format.cell(uint64(j)), cw) + " |")
	}
	rule := strings.Repeat("-", ruleWidth)

	sb.WriteString(t.Op.Title() + " Table:\n")
	sb.WriteString(rule + "\n")
	sb.WriteString(header.String() + "\n")
	sb.WriteString(rule + "\n")

	for i, row := range t.Cells {
		sb.WriteString(" " + pad(format.cell(uint64(i)), cw) + " |")
		for _, v := range row {
			sb.WriteString(" " + pad(format.cell(v), cw) + " |")
		}
		sb.WriteByte('\n')
	}
}

// RenderGrid writes values as a grid of up to 16 columns, rows and columns
// labelled by the high and low hex digit of the index, as in the FIPS-197
// S-box figure.
func RenderGrid(w io.Writer, title string, format Format, values []uint64) error {
	if len(values) == 0 {
		return nil
	}

	cols := min(16, len(values))
	rows := (len(values) + cols - 1) / cols

	var maxValue uint64
	for _, v := range values {
		maxValue = max(maxValue, v)
	}
	cw := format.width(maxValue)
	lw := len(strconv.FormatUint(uint64(rows-1), 16))

	var sb strings.Builder
	if title != "" {
		sb.WriteString(title + "\n")
	}

	sb.WriteString(" " + strings.Repeat(" ", lw) + " |")
	for c := 0; c < cols; c++ {
		sb.WriteString(" " + pad(strings.ToUpper(strconv.FormatUint(uint64(c), 16)), cw))
	}
	sb.WriteByte('\n')
	sb.WriteString(strings.Repeat("-", lw+2) + "+" + strings.Repeat("-", cols*(cw+1)+1) + "\n")

	for r := 0; r < rows; r++ {
		sb.WriteString(" " + pad(strings.ToUpper(strconv.FormatUint(uint64(r), 16)), lw) + " |")
		for c := 0; c < cols && r*cols+c < len(values); c++ {
			cell := format.cell(values[r*cols+c])
			if format == FormatHex {
				cell = strings.Repeat("0", max(0, cw-len(cell))) + cell
			}
			sb.WriteString(" " + pad(cell, cw))
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// RenderSBox writes a 256 entry substitution table in the FIPS-197
// Table 4.3 layout used for table2.txt.
func RenderSBox(w io.Writer, title string, table [256]byte) error {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(title + "\n")
	}

	sb.WriteString("    |")
	for c := 0; c < 16; c++ {
		if c > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, " %X", c)
	}
	sb.WriteByte('\n')
	sb.WriteString("----+" + strings.Repeat("----", 16) + "\n")

	for r := 0; r < 16; r++ {
		fmt.Fprintf(&sb, " %X |", r)
		for c := 0; c < 16; c++ {
			fmt.Fprintf(&sb, " %02X", table[r*16+c])
		}
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

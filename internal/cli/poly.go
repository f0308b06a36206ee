package cli

import (
	"fmt"
	"strings"

	"github.com/Davincible/galois/pkg/gf2"
	"github.com/spf13/cobra"
)

// PolyResult is the JSON form of a polynomial calculation.
type PolyResult struct {
	Operation   string `json:"operation"`
	Result      string `json:"result,omitempty"`
	ResultHex   string `json:"result_hex,omitempty"`
	Remainder   string `json:"remainder,omitempty"`
	Irreducible *bool  `json:"irreducible,omitempty"`
}

func NewPolyCommand() *cobra.Command {
	var modulus string

	cmd := &cobra.Command{
		Use:   "poly <op> <p> [q]",
		Short: "Arithmetic on GF(2) polynomials of any degree",
		Long: `Work with raw polynomials over GF(2), without a field modulus.

Operations:
  add, sub      p + q
  mul           p * q
  divmod        quotient and remainder of p / q
  mulmod        p * q reduced by --mod
  gcd           greatest common divisor of p and q
  irreducible   whether p is irreducible over GF(2)

Polynomials may be written as terms ("x^8 + x^4 + x^3 + x + 1"), or as
0x hex, 0b binary or decimal bit patterns.`,
		Example: `  galois poly divmod "x^12 + x^7 + x^2" 0x11b
  galois poly mulmod "x^7 + x^5" "x^6 + x^2" --mod 0x11b
  galois poly irreducible "x^4 + x^3 + 1"`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := strings.ToLower(args[0])
			unary := op == "irreducible"
			if unary && len(args) != 2 {
				return fmt.Errorf("%s takes exactly one polynomial", op)
			}
			if !unary && len(args) != 3 {
				return fmt.Errorf("%s takes exactly two polynomials", op)
			}

			p, err := gf2.ParsePolynomial(args[1])
			if err != nil {
				return err
			}
			q := gf2.Zero()
			if !unary {
				if q, err = gf2.ParsePolynomial(args[2]); err != nil {
					return err
				}
			}

			result := PolyResult{Operation: op}
			var out, rem *gf2.Polynomial
			switch op {
			case "add", "sub":
				out = p.Add(q)
			case "mul":
				out = p.Mul(q)
			case "divmod":
				if out, rem, err = p.DivMod(q); err != nil {
					return err
				}
				result.Remainder = rem.String()
			case "mulmod":
				if modulus == "" {
					return fmt.Errorf("mulmod requires --mod")
				}
				m, err := gf2.ParsePolynomial(modulus)
				if err != nil {
					return fmt.Errorf("invalid modulus: %w", err)
				}
				if out, err = p.MulMod(q, m); err != nil {
					return err
				}
			case "gcd":
				out = gf2.GCD(p, q)
			case "irreducible":
				irreducible := p.Irreducible()
				result.Irreducible = &irreducible
			default:
				return fmt.Errorf("unknown operation %q: expected add, sub, mul, divmod, mulmod, gcd or irreducible", op)
			}
			if out != nil {
				result.Result, result.ResultHex = out.String(), out.Hex()
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(w, result)
			}

			switch {
			case result.Irreducible != nil:
				verdict := "reducible"
				if *result.Irreducible {
					verdict = "irreducible"
				}
				fmt.Fprintf(w, "%s is %s\n", p, verdict)
			case rem != nil:
				fmt.Fprintf(w, "quotient:  %s  (%s)\n", out, out.Hex())
				fmt.Fprintf(w, "remainder: %s  (%s)\n", rem, rem.Hex())
			default:
				fmt.Fprintf(w, "%s  (%s)\n", out, out.Hex())
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modulus, "mod", "", "Modulus for mulmod")
	return cmd
}

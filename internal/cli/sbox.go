package cli

import (
	"bytes"
	"fmt"

	"github.com/Davincible/galois/internal/validation"
	"github.com/Davincible/galois/pkg/aes"
	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/Davincible/galois/pkg/tables"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewSBoxCommand() *cobra.Command {
	var (
		fieldOpts fieldOptions
		inverse   bool
		lookup    string
		save      string
		outDir    string
	)

	cmd := &cobra.Command{
		Use:   "sbox",
		Short: "Generate the AES S-box",
		Long: `Generate the AES substitution box from first principles.

Every byte b is replaced by its inverse in GF(2^8) mod x^8 + x^4 + x^3 + x + 1
(0 maps to 0), then passed through the Rijndael affine transform with the
constant 0x63. The result is printed as the 16x16 FIPS-197 grid.

Another irreducible degree 8 modulus can be given with --modulus; the result
then has the same construction but is no longer the AES S-box.`,
		Example: `  # Print the S-box and save it as table2.txt
  galois sbox --save table2.txt

  # The inverse S-box
  galois sbox --inverse

  # Substitute a single byte
  galois sbox --lookup 0x53`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			sbox := aes.New()
			if fieldOpts.modulus != "" || fieldOpts.profile != "" {
				field, err := resolveField(cm, fieldOpts)
				if err != nil {
					return err
				}
				sbox, err = aes.NewWithField(field)
				if err != nil {
					return err
				}
			}

			if lookup != "" {
				return runSBoxLookup(cmd, sbox, lookup, inverse)
			}

			title := tables.SBoxTitle
			table := sbox.Table()
			if inverse {
				title = tables.InverseSBoxTitle
				table = sbox.InverseTable()
			}

			var rendered bytes.Buffer
			if err := tables.RenderSBox(&rendered, title, table); err != nil {
				return err
			}

			var artifact *ArtifactResult
			if save != "" {
				path, digest, err := saveArtifact(cm, outDir, save, rendered.Bytes())
				if err != nil {
					return fmt.Errorf("failed to save S-box: %w", err)
				}
				artifact = &ArtifactResult{Path: path, Digest: digest}
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				result := fieldSummary(sbox.Field())
				result["inverse"] = inverse
				values := make([]int, len(table))
				for i, v := range table {
					values[i] = int(v)
				}
				result["table"] = values
				result["blake2b"] = tables.Digest(table[:])
				if artifact != nil {
					result["artifact"] = artifact
				}
				return writeJSON(w, result)
			}

			if !sbox.Field().Equal(gf2n.AES()) {
				yellow := color.New(color.FgYellow)
				yellow.Fprintf(w, "⚠️  Built over %s, not the AES field\n\n", sbox.Field())
			}
			fmt.Fprint(w, rendered.String())
			if artifact != nil {
				printSaved(w, artifact.Path, artifact.Digest)
			}
			return nil
		},
	}

	addFieldFlags(cmd, &fieldOpts)
	cmd.Flags().BoolVar(&inverse, "inverse", false, "Generate the inverse S-box")
	cmd.Flags().StringVarP(&lookup, "lookup", "l", "", "Substitute a single byte instead of printing the table")
	cmd.Flags().StringVarP(&save, "save", "o", "", "Save the rendered table under this file name")
	cmd.Flags().StringVar(&outDir, "dir", "", "Directory for --save (defaults to the configured output directory)")

	return cmd
}

func runSBoxLookup(cmd *cobra.Command, sbox *aes.SBox, input string, inverse bool) error {
	b, err := validation.ParseByte(input)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if inverse {
		y := sbox.InverseSubstitute(b)
		if jsonOutput(cmd) {
			return writeJSON(w, map[string]any{"input": b, "output": y, "inverse": true})
		}
		fmt.Fprintf(w, "S^-1(0x%02x) = 0x%02x\n", b, y)
		return nil
	}

	inv := sbox.Field().MustElement(uint64(b)).Inverse()
	y := sbox.Substitute(b)
	if jsonOutput(cmd) {
		return writeJSON(w, map[string]any{
			"input":         b,
			"field_inverse": inv.Uint64(),
			"output":        y,
		})
	}

	fmt.Fprintf(w, "S(0x%02x) = 0x%02x\n", b, y)
	fmt.Fprintf(w, "  inverse:  0x%02x\n", inv.Uint64())
	fmt.Fprintf(w, "  affine:   0x%02x ^ 0x%02x\n", aes.AffineTransform(byte(inv.Uint64()))^aes.AffineConstant, aes.AffineConstant)
	return nil
}

package cli

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/Davincible/galois/internal/validation"
	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/Davincible/galois/pkg/tables"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// TablesResult is the JSON form of the tables command output.
type TablesResult struct {
	Field    string          `json:"field"`
	Width    uint            `json:"width"`
	Modulus  string          `json:"modulus"`
	Tables   []TableResult   `json:"tables"`
	Report   *tables.Report  `json:"report,omitempty"`
	Artifact *ArtifactResult `json:"artifact,omitempty"`
}

type TableResult struct {
	Operation string     `json:"operation"`
	Cells     [][]uint64 `json:"cells"`
}

type ArtifactResult struct {
	Path   string `json:"path"`
	Digest string `json:"blake2b"`
}

func NewTablesCommand() *cobra.Command {
	var (
		fieldOpts fieldOptions
		ops       []string
		format    string
		save      string
		outDir    string
		workers   int
		verify    bool
	)

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Generate addition and multiplication tables of GF(2^n)",
		Long: `Generate the Cayley tables of a binary field: every pair of elements
combined under addition and multiplication.

Rows are computed in parallel. The rendered tables can be saved as a text
artifact with a BLAKE2b-256 checksum next to it.`,
		Example: `  # GF(2^4) mod x^4 + x^3 + 1 (the default profile)
  galois tables

  # Save as table1.txt and check the field laws
  galois tables --save table1.txt --verify

  # Multiplication only, in hex, for another modulus
  galois tables --modulus "x^4 + x + 1" --op mul --format hex`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg := cm.GetConfig()

			field, err := resolveField(cm, fieldOpts)
			if err != nil {
				return err
			}
			if err := validation.ValidateCayleyWidth(field.Width()); err != nil {
				return err
			}

			if !cmd.Flags().Changed("format") {
				format = cfg.Tables.Format
			}
			f, err := tables.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cfg.Tables.Workers
			}
			if !cmd.Flags().Changed("verify") {
				verify = cfg.Tables.Verify
			}

			builder := tables.NewBuilder(field, tables.WithWorkers(workers))
			built := make([]*tables.Cayley, 0, len(ops))
			for _, name := range ops {
				op, err := tables.ParseOperation(strings.TrimSpace(name))
				if err != nil {
					return err
				}
				t, err := builder.Cayley(cmd.Context(), op)
				if err != nil {
					return err
				}
				built = append(built, t)
			}

			var report *tables.Report
			if verify {
				report, err = verifyTables(cmd, builder, built)
				if err != nil {
					return err
				}
			}

			var rendered bytes.Buffer
			if err := tables.RenderCayley(&rendered, f, built...); err != nil {
				return err
			}

			var artifact *ArtifactResult
			if save != "" {
				path, digest, err := saveArtifact(cm, outDir, save, rendered.Bytes())
				if err != nil {
					return fmt.Errorf("failed to save tables: %w", err)
				}
				artifact = &ArtifactResult{Path: path, Digest: digest}
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				result := TablesResult{
					Field:    field.String(),
					Width:    field.Width(),
					Modulus:  field.Modulus().Hex(),
					Report:   report,
					Artifact: artifact,
				}
				for _, t := range built {
					result.Tables = append(result.Tables, TableResult{Operation: string(t.Op), Cells: t.Cells})
				}
				if err := writeJSON(w, result); err != nil {
					return err
				}
			} else {
				printFieldHeader(w, field)
				fmt.Fprint(w, rendered.String())
				if report != nil {
					printReport(w, report)
				}
				if artifact != nil {
					printSaved(w, artifact.Path, artifact.Digest)
				}
			}

			if report != nil {
				return report.Err()
			}
			return nil
		},
	}

	addFieldFlags(cmd, &fieldOpts)
	cmd.Flags().StringSliceVar(&ops, "op", []string{"add", "mul"}, "Operations to tabulate (add, mul)")
	cmd.Flags().StringVar(&format, "format", "dec", "Cell format (dec or hex)")
	cmd.Flags().StringVarP(&save, "save", "o", "", "Save the rendered tables under this file name")
	cmd.Flags().StringVar(&outDir, "dir", "", "Directory for --save (defaults to the configured output directory)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Rows computed concurrently (0 = number of CPUs)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Check field properties of the generated tables")

	return cmd
}

// verifyTables checks whatever tables were built, adding the inverse table
// when the modulus is irreducible.
func verifyTables(cmd *cobra.Command, builder *tables.Builder, built []*tables.Cayley) (*tables.Report, error) {
	var add, mul *tables.Cayley
	for _, t := range built {
		switch t.Op {
		case tables.OpAdd:
			add = t
		case tables.OpMul:
			mul = t
		}
	}

	var inverses []uint64
	if mul != nil && builder.Field().IsIrreducible() {
		inv, err := builder.Inverses(cmd.Context())
		if err != nil {
			return nil, err
		}
		inverses = inv
	}

	return tables.Verify(add, mul, inverses), nil
}

func printReport(w io.Writer, report *tables.Report) {
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed, color.Bold)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Verifying table properties:")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	for _, c := range report.Checks {
		if c.Passed {
			green.Fprintf(w, "✓ %s\n", c.Name)
		} else {
			red.Fprintf(w, "✗ %s: %s\n", c.Name, c.Detail)
		}
	}

	fmt.Fprintln(w)
	if report.OK() {
		green.Fprintln(w, "All table properties verified successfully!")
	} else {
		red.Fprintln(w, "Some table properties failed")
	}
}

// fieldSummary is shared by commands that report which field they used.
func fieldSummary(f *gf2n.Field) map[string]any {
	return map[string]any{
		"field":       f.String(),
		"width":       f.Width(),
		"modulus":     f.Modulus().Hex(),
		"irreducible": f.IsIrreducible(),
	}
}

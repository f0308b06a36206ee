package cli

import (
	"bytes"
	"fmt"

	"github.com/Davincible/galois/internal/validation"
	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/Davincible/galois/pkg/tables"
	"github.com/spf13/cobra"
)

func NewInverseCommand() *cobra.Command {
	var (
		fieldOpts fieldOptions
		format    string
		save      string
		outDir    string
		workers   int
	)

	cmd := &cobra.Command{
		Use:   "inverse [value]",
		Short: "Show multiplicative inverses in GF(2^n)",
		Long: `Compute multiplicative inverses with the extended Euclidean algorithm.

With a value, print the inverse of that single element. Without one, print
the inverse table of the whole field (widths up to 16). Zero has no inverse
and maps to 0 in the table, matching the AES convention.`,
		Example: `  # Inverse of 0x53 in the AES field
  galois inverse 0x53 --field aes

  # Full inverse table of GF(2^8), in hex
  galois inverse --field aes --format hex`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			field, err := resolveField(cm, fieldOpts)
			if err != nil {
				return err
			}
			if !field.IsIrreducible() {
				return fmt.Errorf("%w: %s", gf2n.ErrReducibleModulus, field.Modulus())
			}

			if len(args) == 1 {
				return runSingleInverse(cmd, field, args[0])
			}

			if err := validation.ValidateTableWidth(field.Width()); err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = cm.GetConfig().Tables.Format
			}
			f, err := tables.ParseFormat(format)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("workers") {
				workers = cm.GetConfig().Tables.Workers
			}

			inverses, err := tables.NewBuilder(field, tables.WithWorkers(workers)).Inverses(cmd.Context())
			if err != nil {
				return err
			}

			var rendered bytes.Buffer
			title := fmt.Sprintf("Multiplicative inverses in %s", field)
			if err := tables.RenderGrid(&rendered, title, f, inverses); err != nil {
				return err
			}

			var artifact *ArtifactResult
			if save != "" {
				path, digest, err := saveArtifact(cm, outDir, save, rendered.Bytes())
				if err != nil {
					return fmt.Errorf("failed to save inverse table: %w", err)
				}
				artifact = &ArtifactResult{Path: path, Digest: digest}
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				result := fieldSummary(field)
				result["inverses"] = inverses
				if artifact != nil {
					result["artifact"] = artifact
				}
				return writeJSON(w, result)
			}

			printFieldHeader(w, field)
			fmt.Fprint(w, rendered.String())
			if artifact != nil {
				printSaved(w, artifact.Path, artifact.Digest)
			}
			return nil
		},
	}

	addFieldFlags(cmd, &fieldOpts)
	cmd.Flags().StringVar(&format, "format", "dec", "Cell format (dec or hex)")
	cmd.Flags().StringVarP(&save, "save", "o", "", "Save the rendered table under this file name")
	cmd.Flags().StringVar(&outDir, "dir", "", "Directory for --save (defaults to the configured output directory)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Concurrent workers (0 = number of CPUs)")

	return cmd
}

func runSingleInverse(cmd *cobra.Command, field *gf2n.Field, input string) error {
	v, err := validation.ParseElementValue(input, field.Width())
	if err != nil {
		return err
	}
	e := field.MustElement(v)
	inv := e.Inverse()

	w := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		result := fieldSummary(field)
		result["value"] = e.Uint64()
		result["inverse"] = inv.Uint64()
		return writeJSON(w, result)
	}

	fmt.Fprintf(w, "inverse(%#x) = %#x  (%d)\n", e, inv, inv.Uint64())
	if e.IsZero() {
		fmt.Fprintln(w, "  0 has no inverse; it maps to 0 by convention")
		return nil
	}
	fmt.Fprintf(w, "  %s\n", inv.Polynomial())
	return nil
}

package cli

import (
	"errors"
	"fmt"

	"github.com/Davincible/galois/internal/validation"
	"github.com/Davincible/galois/pkg/aes"
	"github.com/Davincible/galois/pkg/storage"
	"github.com/Davincible/galois/pkg/tables"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// VerifyResult is the JSON form of the verify command output.
type VerifyResult struct {
	Field     string          `json:"field"`
	Tables    *tables.Report  `json:"tables,omitempty"`
	SBox      *tables.Report  `json:"sbox,omitempty"`
	Artifacts []ArtifactCheck `json:"artifacts,omitempty"`
}

type ArtifactCheck struct {
	Name  string `json:"name"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func NewVerifyCommand() *cobra.Command {
	var (
		fieldOpts fieldOptions
		sbox      bool
		artifacts []string
		dir       string
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check field properties and saved artifacts",
		Long: `Rebuild the tables of a field and check the field laws: identities,
commutativity, closure, additive self-inverses, zero absorption, and that
every non-zero element has a unique inverse.

With --sbox the AES S-box is checked as well. With --artifact, files saved by
--save are checked against their BLAKE2b-256 sidecar.`,
		Example: `  galois verify
  galois verify --field aes --sbox
  galois verify --artifact table1.txt --artifact table2.txt`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			field, err := resolveField(cm, fieldOpts)
			if err != nil {
				return err
			}
			if err := validation.ValidateCayleyWidth(field.Width()); err != nil {
				return err
			}

			builder := tables.NewBuilder(field, tables.WithWorkers(cm.GetConfig().Tables.Workers))
			add, err := builder.Cayley(cmd.Context(), tables.OpAdd)
			if err != nil {
				return err
			}
			mul, err := builder.Cayley(cmd.Context(), tables.OpMul)
			if err != nil {
				return err
			}

			result := VerifyResult{Field: field.String()}
			var errs []error

			report, err := verifyTables(cmd, builder, []*tables.Cayley{add, mul})
			if err != nil {
				return err
			}
			result.Tables = report
			errs = append(errs, report.Err())

			if sbox {
				s := aes.New()
				result.SBox = tables.VerifySBox(s.Table(), s.InverseTable())
				errs = append(errs, result.SBox.Err())
			}

			if dir == "" {
				dir = cm.GetConfig().Storage.OutputDir
			}
			store := storage.NewArtifactStore(dir)
			for _, name := range artifacts {
				check := ArtifactCheck{Name: name, Valid: true}
				if _, err := store.Load(name); err != nil {
					check.Valid, check.Error = false, err.Error()
					errs = append(errs, err)
				}
				result.Artifacts = append(result.Artifacts, check)
			}

			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				if err := writeJSON(w, result); err != nil {
					return err
				}
				return errors.Join(errs...)
			}

			printFieldHeader(w, field)
			if !field.IsIrreducible() {
				color.New(color.FgYellow).Fprintln(w, "Inverse checks skipped for a reducible modulus")
			}
			printReport(w, result.Tables)

			if result.SBox != nil {
				fmt.Fprintln(w)
				fmt.Fprintln(w, "AES S-box:")
				printReport(w, result.SBox)
			}

			if len(result.Artifacts) > 0 {
				green := color.New(color.FgGreen)
				red := color.New(color.FgRed, color.Bold)

				fmt.Fprintln(w)
				fmt.Fprintf(w, "Artifacts in %s:\n", store.Dir())
				for _, a := range result.Artifacts {
					if a.Valid {
						green.Fprintf(w, "✓ %s\n", a.Name)
					} else {
						red.Fprintf(w, "✗ %s: %s\n", a.Name, a.Error)
					}
				}
			}

			return errors.Join(errs...)
		},
	}

	addFieldFlags(cmd, &fieldOpts)
	cmd.Flags().BoolVar(&sbox, "sbox", false, "Also check the AES S-box")
	cmd.Flags().StringArrayVar(&artifacts, "artifact", nil, "Check a saved artifact against its digest (repeatable)")
	cmd.Flags().StringVar(&dir, "dir", "", "Artifact directory (defaults to the configured output directory)")

	return cmd
}

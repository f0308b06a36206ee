package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Davincible/galois/internal/validation"
	"github.com/Davincible/galois/pkg/config"
	"github.com/Davincible/galois/pkg/gf2"
	"github.com/Davincible/galois/pkg/gf2n"
	"github.com/Davincible/galois/pkg/storage"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// fieldOptions are the flags shared by every command that works in a field.
type fieldOptions struct {
	profile string
	width   uint
	modulus string
}

func addFieldFlags(cmd *cobra.Command, opts *fieldOptions) {
	cmd.Flags().StringVarP(&opts.profile, "field", "f", "", "Named field profile (gf16, aes, or a saved profile)")
	cmd.Flags().UintVarP(&opts.width, "width", "n", 0, "Field width n for GF(2^n) (defaults to the modulus degree)")
	cmd.Flags().StringVarP(&opts.modulus, "modulus", "m", "", `Irreducible modulus, e.g. "x^4 + x^3 + 1", 0x19 or 0b11001`)
}

// resolveField picks the field from, in order: --modulus/--width, --field,
// then the configured default.
func resolveField(cm *config.ConfigManager, opts fieldOptions) (*gf2n.Field, error) {
	if opts.modulus != "" {
		if opts.profile != "" {
			return nil, fmt.Errorf("--field cannot be combined with --modulus")
		}
		m, err := gf2.ParsePolynomial(opts.modulus)
		if err != nil {
			return nil, fmt.Errorf("invalid modulus: %w", err)
		}
		width := opts.width
		if width == 0 {
			width = uint(m.Degree())
		}
		if err := validation.ValidateWidth(width); err != nil {
			return nil, err
		}
		return gf2n.NewField(width, m)
	}

	if opts.width != 0 {
		return nil, fmt.Errorf("--width requires --modulus")
	}

	if opts.profile != "" {
		profile, err := cm.GetProfile(opts.profile)
		if err != nil {
			return nil, err
		}
		return profile.Field()
	}

	return cm.DefaultField()
}

// loadConfig opens the configuration and applies the --no-color flag.
func loadConfig(cmd *cobra.Command) (*config.ConfigManager, error) {
	cm, err := config.NewConfigManager()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cm.GetConfig().Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cm.Path(), err)
	}

	noColor, _ := cmd.Flags().GetBool("no-color")
	color.NoColor = noColor || !cm.GetConfig().UI.UseColor || !term.IsTerminal(int(os.Stdout.Fd()))

	verbose, _ := cmd.Flags().GetBool("verbose")
	logLevel.Set(verbosityLevel(cm.GetConfig().UI.Verbosity, verbose))

	slog.Debug("Loaded config", "path", cm.Path(), "verbosity", cm.GetConfig().UI.Verbosity)
	return cm, nil
}

func jsonOutput(cmd *cobra.Command) bool {
	outputJSON, _ := cmd.Flags().GetBool("json")
	return outputJSON
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// saveArtifact stores data in the configured output directory, or in dir
// when it is set.
func saveArtifact(cm *config.ConfigManager, dir, name string, data []byte) (string, string, error) {
	name, err := validation.SanitizeFileName(name)
	if err != nil {
		return "", "", err
	}
	if dir == "" {
		dir = cm.GetConfig().Storage.OutputDir
	}
	return storage.NewArtifactStore(dir).Save(name, data)
}

func printSaved(w io.Writer, path, digest string) {
	green := color.New(color.FgGreen, color.Bold)

	fmt.Fprintln(w)
	green.Fprintf(w, "✓ Saved %s\n", path)
	fmt.Fprintf(w, "  BLAKE2b-256: %s\n", digest)
}

func printFieldHeader(w io.Writer, f *gf2n.Field) {
	cyan := color.New(color.FgCyan, color.Bold)
	cyan.Fprintf(w, "=== %s ===\n", f)
	if !f.IsIrreducible() {
		yellow := color.New(color.FgYellow)
		yellow.Fprintln(w, "⚠️  Modulus is reducible: this is a ring, not a field, and some elements have no inverse")
	}
	fmt.Fprintln(w)
}

package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// logLevel is raised or lowered once the config's verbosity is known.
var logLevel = new(slog.LevelVar)

// verbosityLevel maps the configured verbosity to a log level. The
// --verbose flag always wins.
func verbosityLevel(verbosity string, verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch verbosity {
	case "quiet":
		return slog.LevelError
	case "verbose":
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// NewRootCommand assembles the galois command tree.
func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "galois",
		Short: "GF(2^n) arithmetic, Cayley tables and the AES S-box",
		Long: `Galois is a finite field calculator for the binary extension fields GF(2^n).

It derives standard artifacts from first principles:
- Addition and multiplication tables of GF(2^n), e.g. GF(2^4) mod x^4 + x^3 + 1
- Multiplicative inverse tables via the extended Euclidean algorithm
- The AES S-box: inversion in GF(2^8) mod 0x11B followed by the Rijndael
  affine transform
- Raw GF(2) polynomial arithmetic of any degree

Fields are chosen with --field (a named profile), or --modulus and --width.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			logLevel.Set(verbosityLevel("", verbose))
			slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level: logLevel,
			})))
		},
	}

	rootCmd.AddCommand(
		NewTablesCommand(),
		NewInverseCommand(),
		NewSBoxCommand(),
		NewCalcCommand(),
		NewPolyCommand(),
		NewVerifyCommand(),
		NewConfigCommand(),
	)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().Bool("no-color", false, "Disable colored output")

	return rootCmd
}

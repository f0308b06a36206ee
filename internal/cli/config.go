package cli

import (
	"fmt"
	"strings"

	"github.com/Davincible/galois/pkg/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show configuration and manage field profiles",
		Long: `Inspect the galois configuration and manage named field profiles.

The configuration lives in $GALOIS_CONFIG, $XDG_CONFIG_HOME/galois/config.json
or ~/.config/galois/config.json. Any value can be overridden with a GALOIS_*
environment variable, e.g. GALOIS_PROFILE=aes or GALOIS_FORMAT=hex.

Profiles name a width and modulus so they can be selected with --field.
The gf16 and aes profiles are built in.`,
		Example: `  # Show the effective configuration
  galois config show

  # Save a profile and make it the default
  galois config add-profile gf16alt --width 4 --modulus "x^4 + x + 1"
  galois config use gf16alt`,
	}

	cmd.AddCommand(
		newConfigShowCommand(),
		newConfigPathCommand(),
		newConfigProfilesCommand(),
		newConfigAddProfileCommand(),
		newConfigRemoveProfileCommand(),
		newConfigUseCommand(),
	)

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cm.GetConfig())
		},
	}
}

func newConfigPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cm.Path())
			return nil
		},
	}
}

func newConfigProfilesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"list"},
		Short:   "List field profiles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			profiles := cm.ListProfiles()
			w := cmd.OutOrStdout()
			if jsonOutput(cmd) {
				return writeJSON(w, profiles)
			}

			cyan := color.New(color.FgCyan, color.Bold)
			current := cm.GetConfig().Field.Profile
			for _, p := range profiles {
				marker := " "
				if p.Name == current {
					marker = "*"
				}
				origin := ""
				if _, builtin := config.BuiltinProfiles[p.Name]; builtin {
					origin = " (built in)"
				}
				cyan.Fprintf(w, "%s %s", marker, p.Name)
				fmt.Fprintf(w, "%s\n", origin)
				fmt.Fprintf(w, "    GF(2^%d) mod %s\n", p.Width, p.Modulus)
				if p.Description != "" {
					fmt.Fprintf(w, "    %s\n", p.Description)
				}
			}
			return nil
		},
	}
}

func newConfigAddProfileCommand() *cobra.Command {
	var (
		width       uint
		modulus     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add-profile <name>",
		Short: "Save a named field profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			profile := &config.FieldProfile{
				Name:        strings.TrimSpace(args[0]),
				Description: description,
				Width:       width,
				Modulus:     modulus,
			}
			if err := cm.AddProfile(profile); err != nil {
				return err
			}

			field, err := profile.Field()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ Profile '%s' saved\n", profile.Name)
			fmt.Fprintf(w, "  %s\n", field)
			if !field.IsIrreducible() {
				color.New(color.FgYellow).Fprintln(w, "⚠️  Modulus is reducible: inverses and the S-box are unavailable")
			}
			return nil
		},
	}

	cmd.Flags().UintVarP(&width, "width", "n", 0, "Field width n")
	cmd.Flags().StringVarP(&modulus, "modulus", "m", "", "Modulus polynomial of degree n")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.MarkFlagRequired("width")
	cmd.MarkFlagRequired("modulus")

	return cmd
}

func newConfigRemoveProfileCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "remove-profile <name>",
		Aliases: []string{"rm-profile"},
		Short:   "Delete a saved field profile",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			name := args[0]
			if _, builtin := config.BuiltinProfiles[name]; builtin {
				return fmt.Errorf("profile '%s' is built in and cannot be removed", name)
			}
			wasDefault := cm.FileConfig().Field.Profile == name
			if err := cm.DeleteProfile(name); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			color.New(color.FgGreen, color.Bold).Fprintf(w, "✓ Profile '%s' removed\n", name)
			if wasDefault {
				color.New(color.FgYellow).Fprintf(w, "Default field reset to '%s'\n", config.DefaultProfile)
			}
			return nil
		},
	}
}

func newConfigUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Make a profile the default field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cm, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if _, err := cm.GetProfile(args[0]); err != nil {
				return err
			}

			if err := cm.UpdateConfig(func(c *config.Config) {
				c.Field.Profile = args[0]
			}); err != nil {
				return err
			}

			color.New(color.FgGreen, color.Bold).Fprintf(cmd.OutOrStdout(), "✓ Default field is now '%s'\n", args[0])
			return nil
		},
	}
}

package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"sigil/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sigil",
	Short: "Sigil annotation checker",
	Long:  `Sigil resolves builder-style type annotations and reports what they mean`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return configureColor(cmd)
	},
}

// main initializes the CLI by setting the command version, registering
// subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics to show (0=manifest default)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// configureColor applies the --color persistent flag process-wide.
func configureColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return err
	}
	switch mode {
	case "on":
		color.NoColor = false
	case "off":
		color.NoColor = true
	case "auto":
		color.NoColor = !isTerminal(os.Stdout)
	}
	return nil
}

// useColor reports whether colored output is currently enabled.
func useColor() bool {
	return !color.NoColor
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

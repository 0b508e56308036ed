package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/config"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/internal/logging"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬  ┬┌┐ ┬┌┐┌┌┬┐
  └┐┌┘├┴┐││││ ││
   └┘ └─┘┴┘└┘─┴┘
`

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
}

func main() {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "vbind",
		Short: "Reactive data binding for HTML templates",
		Long: `vbind compiles an HTML template against a data object.

Attributes like v-model, @click and v-text, and {{ }} placeholders,
become watchers that re-render exactly the nodes that read a key
whenever it changes.

  • render a template from the command line
  • serve it live over WebSocket
  • configure data and click handlers in vbind.yaml`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error (default from vbind.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "", "Log format: text or json (default from vbind.yaml)")

	rootCmd.AddCommand(
		renderCmd(flags),
		serveCmd(flags),
		initCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		if verr, ok := err.(*errors.Error); ok {
			fmt.Fprint(os.Stderr, verr.Format())
		} else {
			fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		}
		os.Exit(1)
	}
}

// logger builds the logger from the config, with flags taking priority.
func (f *globalFlags) logger(cfg *config.Config) (*slog.Logger, error) {
	level, format := cfg.Log.Level, cfg.Log.Format
	if f.logLevel != "" {
		level = f.logLevel
	}
	if f.logFormat != "" {
		format = f.logFormat
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return nil, errors.New("E400").WithDetail(err.Error())
	}
	return logging.New(lvl, format), nil
}

// printBanner prints the ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

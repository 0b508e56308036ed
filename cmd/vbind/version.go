package main

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vbind/internal/templates"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/server"
)

// buildInfo describes this binary and the defaults it was built with.
type buildInfo struct {
	Version    string             `json:"version"`
	Commit     string             `json:"commit"`
	Built      string             `json:"built"`
	Go         string             `json:"go"`
	Platform   string             `json:"platform"`
	Directives binding.Directives `json:"directives"`
	Templates  []string           `json:"templates"`
	WebSocket  string             `json:"websocket"`
}

// currentBuild fills in version and commit from the module build info
// when they were not set with -ldflags.
func currentBuild() buildInfo {
	info := buildInfo{
		Version:    version,
		Commit:     commit,
		Built:      date,
		Go:         runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
		Directives: binding.DefaultDirectives(),
		Templates:  templates.List(),
		WebSocket:  server.WebSocketPath,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.Commit == "none":
			info.Commit = s.Value
		case s.Key == "vcs.time" && info.Built == "unknown":
			info.Built = s.Value
		}
	}
	return info
}

func versionCmd() *cobra.Command {
	var short, asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build details",
		Long: `Print the vbind version together with the directive names,
init templates and WebSocket path this binary uses by default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentBuild()
			out := cmd.OutOrStdout()
			switch {
			case short:
				fmt.Fprintln(out, info.Version)
			case asJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			default:
				printBuild(out, info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print build details as JSON")
	cmd.MarkFlagsMutuallyExclusive("short", "json")

	return cmd
}

func printBuild(out io.Writer, info buildInfo) {
	d := info.Directives
	fmt.Fprint(out, banner)
	fmt.Fprintf(out, "\n  vbind %s (%s, %s)\n", info.Version, info.Commit, info.Built)
	fmt.Fprintf(out, "  %s on %s\n\n", info.Go, info.Platform)
	fmt.Fprintf(out, "  Directives: %s  %s  %s  %s … %s\n", d.Model, d.Click, d.Text, d.Open, d.Close)
	fmt.Fprintf(out, "  Templates:  %s\n", strings.Join(info.Templates, ", "))
	fmt.Fprintf(out, "  WebSocket:  %s\n\n", info.WebSocket)
}

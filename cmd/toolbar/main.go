package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/plat-toolbar/internal/api"
	"github.com/joeblew999/plat-toolbar/internal/glyph"
	"github.com/joeblew999/plat-toolbar/internal/logging"
	"github.com/joeblew999/plat-toolbar/internal/server"
)

// Options defines all CLI flags and env vars for the toolbar server.
// Flags: --host, --port, --data-dir, --settings, --verbose
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_DATA_DIR, SERVICE_SETTINGS, SERVICE_VERBOSE
type Options struct {
	Host     string `doc:"Host to bind to" default:"0.0.0.0"`
	Port     int    `doc:"Port to listen on" short:"p" default:"8087"`
	DataDir  string `doc:"Directory for layers, settings and the feature database" default:".data"`
	Settings string `doc:"Settings file, defaults to <data-dir>/settings.yaml"`
	Verbose  bool   `doc:"Enable debug logging" short:"v"`
}

func newServer(opts *Options, logger *log.Logger) *server.Server {
	srv, err := server.New(server.Config{
		Host:     opts.Host,
		Port:     fmt.Sprintf("%d", opts.Port),
		DataDir:  opts.DataDir,
		Settings: opts.Settings,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("starting server", "err", err)
	}
	return srv
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		hooks.OnStart(func() {
			logger := logging.New(os.Stderr, logging.Level(opts.Verbose))
			srv := newServer(opts, logger)
			defer srv.Close()

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			logger.Info("plat-toolbar API server starting", "server", baseURL, "data", opts.DataDir)
			logger.Info("endpoints", "docs", baseURL+"/docs", "openapi", baseURL+"/openapi.json")

			if err := http.ListenAndServe(addr, srv); err != nil {
				logger.Fatal("server error", "err", err)
			}
		})
	})

	cli.Root().Use = "toolbar"
	cli.Root().Short = "Map toolbar back end: styles, glyphs and intersection drawing"
	cli.Root().Version = api.Version

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:   "spec",
		Short: "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		Run: humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			opts.DataDir = ""
			srv := newServer(opts, logging.New(os.Stderr, log.WarnLevel))
			defer srv.Close()
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			var err error
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error marshaling spec: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(output))
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// windbarb subcommand: print the barb glyph for a wind speed
	windbarbCmd := &cobra.Command{
		Use:   "windbarb",
		Short: "Print the wind barb SVG for a speed in m/s (--table lists the buckets)",
		Run: func(cmd *cobra.Command, args []string) {
			if listAll, _ := cmd.Flags().GetBool("table"); listAll {
				fmt.Println(barbTable(55, 2.5))
				return
			}
			speed, _ := cmd.Flags().GetFloat64("speed")
			key := glyph.WindBarbKey(speed)
			svg, err := glyph.Synthesize(key, glyph.Appearance{Stroke: "#000000", StrokeWidth: 1})
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
			fmt.Fprintf(os.Stderr, "%s\n", key)
			fmt.Println(svg)
		},
	}
	windbarbCmd.Flags().Float64P("speed", "s", 0, "Wind speed in m/s")
	windbarbCmd.Flags().BoolP("table", "t", false, "List the bucket of every 2.5 m/s step")
	cli.Root().AddCommand(windbarbCmd)

	cli.Run()
}

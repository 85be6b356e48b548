/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Tabula Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/google/tabula/core/config"
	"github.com/google/tabula/core/logger"
	"github.com/google/tabula/core/query"
	"github.com/google/tabula/core/rendering"
	"github.com/google/tabula/core/server"
	"github.com/google/tabula/demo"
)

type rootFlags struct {
	configFile string
	logLevel   string
	logJSON    bool
}

// load reads the configuration and applies the command line overrides.
func (f *rootFlags) load(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithFile(f.configFile))
	}
	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if cmd.Flags().Changed("log-json") {
		cfg.Log.JSON = f.logJSON
	}
	if err := config.Validate(cfg); err != nil {
		return nil, nil, err
	}

	l := logger.NewLogger(cfg.Log.LoggerConfig(cmd.ErrOrStderr()))
	logger.SetDefault(l)
	return cfg, l, nil
}

func rootCmd() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "tabula",
		Short:         "Paged, sortable and searchable data grids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level (debug, info, warn, error, disabled)")
	root.PersistentFlags().BoolVar(&flags.logJSON, "log-json", false, "log in JSON")

	root.AddCommand(
		serveCmd(flags),
		printCmd(flags),
	)
	return root
}

func serveCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the demo grids over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, l, err := flags.load(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

			d, err := demo.Setup(ctx, cfg, l, server.WithMetrics(server.NewMetrics(reg)))
			if err != nil {
				return err
			}
			defer d.Close()

			mux := http.NewServeMux()
			mux.Handle(cfg.Server.MetricsPath, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
			mux.Handle("/", d.Server.Handler())

			return serve(ctx, l, &http.Server{
				Addr:              cfg.Server.Addr,
				Handler:           mux,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			}, cfg.Server)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides server.addr")
	return cmd
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, l logger.Logger, srv *http.Server, cfg config.ServerConfig) error {
	errCh := make(chan error, 1)
	go func() {
		l.Info("listening", "addr", srv.Addr, "metrics", cfg.MetricsPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func printCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "print <sample> [query]",
		Short: "Print a demo grid as a text table",
		Long: "Print renders one demo grid to stdout. The optional query uses the grid URL\n" +
			"parameters, for example: tabula print sorting 'sortcol=2&sortdir=desc'",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := flags.load(cmd)
			if err != nil {
				return err
			}
			d, err := demo.Setup(cmd.Context(), cfg, l)
			if err != nil {
				return err
			}
			defer d.Close()

			raw := ""
			if len(args) == 2 {
				raw = args[1]
			}
			return printPage(cmd.Context(), cmd.OutOrStdout(), d.Server, "/"+args[0], raw)
		},
	}
}

func printPage(ctx context.Context, w io.Writer, srv *server.Server, path, rawQuery string) error {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return fmt.Errorf("query %q: %w", rawQuery, err)
	}
	state := query.FromValues(path, values)

	for _, page := range srv.Pages() {
		if page.Path != path {
			continue
		}
		for _, ep := range page.Grids {
			vm, err := ep.RenderView(ctx, state)
			if err != nil {
				return err
			}
			if err := rendering.RenderText(w, vm); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("no sample at %s", path)
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"crime_service/internal/api"
	"crime_service/internal/config"
	"crime_service/internal/core"
	"crime_service/internal/domain/model"
	"crime_service/internal/domain/repository"
	"crime_service/internal/infrastructure/policeapi"
	"crime_service/internal/report"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const version = "0.1.0"

func newRootCmd() *cobra.Command {
	var configFile string
	var v *viper.Viper

	root := &cobra.Command{
		Use:          "crime_service",
		Short:        "Street crime outcome report for a polygon and month",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			v, err = config.New(configFile)
			if err != nil {
				return err
			}
			return bindFlags(v, cmd.Flags())
		},
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (yaml, json or toml)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(v, time.Now())
	}

	root.AddCommand(newRunCmd(loadConfig), newServeCmd(loadConfig), newVersionCmd())
	return root
}

func addReportFlags(fs *pflag.FlagSet) {
	fs.String("month", "", "reporting month YYYY-MM (default: now minus month-lag)")
	fs.Int("month-lag", 2, "months back from now when --month is not set")
	fs.String("polygon", config.DefaultPolygon, "area as lat,lon:lat,lon:...")
	fs.String("area", "", "OSM administrative area name, overrides --polygon")
	fs.Duration("timeout", 10*time.Second, "per-request timeout")
	fs.Int("workers", core.DefaultWorkers, "concurrent neighbourhood lookups")
	fs.Bool("skip-failed", false, "skip records whose enrichment fails instead of aborting")
}

// bindFlags maps "--skip-failed" to the "skip_failed" key. Only flags set on
// the command line override env and file values.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || err != nil {
			return
		}
		err = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
	})
	return err
}

func newRunCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch, enrich and aggregate one report, then render charts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runReport(ctx, cfg, cmd.OutOrStdout())
		},
	}
	addReportFlags(cmd.Flags())
	cmd.Flags().String("output-dir", "output", "directory for chart files")
	cmd.Flags().StringSlice("chart", []string{"png", "xlsx"}, "chart formats to write (png, xlsx)")
	return cmd
}

func newServeCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve reports over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	addReportFlags(cmd.Flags())
	cmd.Flags().String("listen", ":8080", "listen address")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "crime_service %s\n", version)
		},
	}
}

func newReportService(cfg *config.Config) *core.ReportService {
	client := policeapi.NewClient(cfg.CrimesURL, cfg.NeighbourhoodURL, cfg.Timeout)
	areas := repository.NewOverpassRepository(cfg.OverpassURL, cfg.Timeout)
	pipeline := core.NewPipeline(client, cfg.Workers, cfg.SkipFailed)
	return core.NewReportService(client, pipeline, areas)
}

func runReport(ctx context.Context, cfg *config.Config, out io.Writer) error {
	// Resolve renderers first so a bad --chart value fails before any request.
	renderers, err := report.RenderersFor(cfg.Charts)
	if err != nil {
		return err
	}

	rep, err := newReportService(cfg).Run(ctx, cfg.Request())
	if err != nil {
		return describe(err)
	}

	if err := report.PrintForces(out, rep.MissingOutcomeForces); err != nil {
		return err
	}
	fmt.Fprintln(out)
	if err := report.PrintCounts(out, rep.Counts); err != nil {
		return err
	}
	if rep.Skipped > 0 {
		log.Printf("Warning: %d records skipped after enrichment errors", rep.Skipped)
	}

	for _, r := range renderers {
		path, err := report.WriteFile(cfg.OutputDir, r, rep)
		if err != nil {
			log.Printf("Warning: %s chart not rendered: %v", r.Name(), err)
			continue
		}
		log.Printf("Chart written to %s", path)
	}
	return nil
}

// describe prefixes fatal errors with their kind for the command line.
func describe(err error) error {
	var ne *model.NetworkError
	if errors.As(err, &ne) {
		return fmt.Errorf("network error: %w", err)
	}
	var mfe *model.MissingFieldError
	if errors.As(err, &mfe) {
		return fmt.Errorf("missing field error: %w", err)
	}
	return err
}

func serve(ctx context.Context, cfg *config.Config) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	handler := api.NewHandler(newReportService(cfg), cfg.Request())
	handler.Register(r)

	srv := &http.Server{
		Addr:    cfg.Listen,
		Handler: r,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

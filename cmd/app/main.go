package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yanqian/lifepattern/internal/bootstrap"
	"github.com/yanqian/lifepattern/internal/domain/analyzer"
	apperrors "github.com/yanqian/lifepattern/pkg/errors"
	"github.com/yanqian/lifepattern/pkg/logger"
)

type (
	appFactory     func() (*bootstrap.App, error)
	serviceFactory func(log *slog.Logger) (analyzer.Service, error)
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := newRootCommand(initializeApp, initializeService)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", apperrors.PublicMessage(err))
		os.Exit(1)
	}
}

func newRootCommand(newApp appFactory, newService serviceFactory) *cobra.Command {
	root := &cobra.Command{
		Use:           "lifepattern",
		Short:         "Life pattern analyzer",
		Long:          "Predicts hourly energy and recommended activities from circadian rhythm, weather and the lunar cycle.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newServeCommand(newApp),
		newAnalyzeCommand(newService),
		newMoonCommand(newService),
	)
	return root
}

func newServeCommand(newApp appFactory) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := newApp()
			if err != nil {
				return fmt.Errorf("wire application: %w", err)
			}
			return app.Run(cmd.Context())
		},
	}
}

func newAnalyzeCommand(newService serviceFactory) *cobra.Command {
	var (
		city   string
		lat    float64
		lon    float64
		output string
	)
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run one analysis for a city, coordinates or this machine's IP location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("lat") != flags.Changed("lon") {
				return fmt.Errorf("--lat and --lon must be given together")
			}
			svc, err := newService(cliLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}

			req := analyzer.Request{City: city}
			if flags.Changed("lat") {
				req.Lat, req.Lon = &lat, &lon
			}
			resp, err := svc.Analyze(cmd.Context(), req)
			if err != nil {
				return err
			}
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			renderAnalysis(cmd.OutOrStdout(), resp)
			return nil
		},
	}
	cmd.Flags().StringVarP(&city, "city", "c", "", "city name to geocode")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func newMoonCommand(newService serviceFactory) *cobra.Command {
	var (
		date   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "moon",
		Short: "Print the lunar phase for a date (YYYY-MM-DD) or now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			svc, err := newService(cliLogger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			state, err := svc.Moon(cmd.Context(), date)
			if err != nil {
				return err
			}
			if output == "json" {
				return writeJSON(cmd.OutOrStdout(), state)
			}
			renderMoon(cmd.OutOrStdout(), state)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "date formatted as YYYY-MM-DD")
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format (text, json)")
	return cmd
}

func validateOutput(output string) error {
	switch output {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("unsupported output %q (want text or json)", output)
}

// One-shot commands log to stderr so stdout stays machine readable.
func cliLogger(w io.Writer) *slog.Logger {
	return logger.NewWithWriter(w, os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/i474232898/soil-health-map/internal/config"
	"github.com/i474232898/soil-health-map/internal/soil"
)

var validate = validator.New()

func recommendCmd() *cobra.Command {
	var req soil.Request

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Calculate a fertilizer recommendation and print it as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := readingFlags(cmd.Flags(), &req); err != nil {
				return err
			}

			b, err := openBackend(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer b.Close()

			svc, err := b.recommender(cfg)
			if err != nil {
				return err
			}
			return runRecommend(cmd.Context(), svc, req, cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Crop, "crop", "", "crop name (required)")
	flags.Float64("nitrogen", 0, "available nitrogen in kg/ha")
	flags.Float64("phosphorus", 0, "available phosphorus in kg/ha")
	flags.Float64("potassium", 0, "available potassium in kg/ha")
	flags.Float64("ph", 0, "soil pH")
	flags.StringVar(&req.District, "district", "", "district used to estimate missing readings")
	flags.StringVar(&req.State, "state", "", "state of the district")
	_ = cmd.MarkFlagRequired("crop")
	return cmd
}

// readingFlags copies the readings given on the command line into req.
// Flags left unset stay nil so they are estimated.
func readingFlags(flags *pflag.FlagSet, req *soil.Request) error {
	targets := []struct {
		name string
		dst  **float64
	}{
		{"nitrogen", &req.Nitrogen},
		{"phosphorus", &req.Phosphorus},
		{"potassium", &req.Potassium},
		{"ph", &req.PH},
	}
	for _, t := range targets {
		if !flags.Changed(t.name) {
			continue
		}
		v, err := flags.GetFloat64(t.name)
		if err != nil {
			return err
		}
		*t.dst = &v
	}
	return nil
}

func runRecommend(ctx context.Context, svc *soil.Service, req soil.Request, w io.Writer) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid readings: %w", err)
	}

	result, err := svc.Calculate(ctx, req)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

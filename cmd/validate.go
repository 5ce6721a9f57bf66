package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	dasha "github.com/nholding/kundli-view/internal/dasha/domain"
	"github.com/nholding/kundli-view/internal/dasha/service"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/repository"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the engine and configured services, or a saved engine result",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().String("chart", "", "validate a saved engine result instead of the environment")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	if chartFile, _ := cmd.Flags().GetString("chart"); chartFile != "" {
		return validateChartFile(cmd, chartFile, log)
	}

	ok := true
	report := func(name string, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", name, err)
			ok = false
			return
		}
		fmt.Fprintf(os.Stderr, "✓ %s\n", name)
	}

	report("chart engine "+cfg.EnginePath, engine.NewExecEngine(cfg.EnginePath, log).Validate())

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if cfg.Archive.Enabled {
		_, clients, err := openArchive(ctx, cfg)
		report("chart archive", err)
		clients.Close()
	}
	if cfg.Export.Enabled {
		_, err := repository.NewS3Client(ctx, cfg.Repository())
		report("report bucket "+cfg.Export.Bucket, err)
	}

	if !ok {
		return errors.New("validation failed")
	}
	return nil
}

// validateChartFile decodes a saved result and checks its dasha timeline,
// listing every integrity problem found.
func validateChartFile(cmd *cobra.Command, path string, log zerolog.Logger) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	res, err := (&engine.FileEngine{Path: path}).ComputeChart(ctx, engine.BirthData{})
	if err != nil {
		var ie *apperrors.IntegrityError
		if errors.As(err, &ie) {
			printProblems(cmd, ie)
		}
		return err
	}

	ds := service.NewDashaService(log)
	if err := ds.Initialize(res.Mahadashas, res.Antardashas, res.Pratyantardashas); err != nil {
		var ie *apperrors.IntegrityError
		if errors.As(err, &ie) {
			printProblems(cmd, ie)
		}
		return err
	}

	counts := ds.Tree().Counts()
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: ascendant %s, divisions %v, %d/%d/%d dasha periods\n",
		path, res.AscendantSign(), chart.Divisions(res.DivisionalCharts),
		counts[dasha.MahaLevel], counts[dasha.AntarLevel], counts[dasha.PratyLevel])
	return nil
}

func printProblems(cmd *cobra.Command, ie *apperrors.IntegrityError) {
	for _, p := range ie.Problems {
		fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s\n", p)
	}
}

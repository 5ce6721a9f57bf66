package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nholding/kundli-view/internal/apperrors"
	chart "github.com/nholding/kundli-view/internal/chart/domain"
	"github.com/nholding/kundli-view/internal/engine"
	"github.com/nholding/kundli-view/internal/export"
	"github.com/nholding/kundli-view/internal/render"
	"github.com/nholding/kundli-view/internal/repository"
	"github.com/nholding/kundli-view/internal/session"
	"github.com/nholding/kundli-view/internal/utils"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Generate a chart and print every view",
	Example: `  kundli render --date 1990-04-12 --time 06:30 --tz 5.5 --lat 28.61 --lon 77.20 --division 9
  kundli render --chart result.json --dasha-date 2018-06-15`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().String("date", "", "birth date, YYYY-MM-DD")
	renderCmd.Flags().String("time", "", "birth time, HH:MM")
	renderCmd.Flags().String("sec", "", "birth second")
	renderCmd.Flags().String("tz", "", "UTC offset in hours, e.g. 5.5")
	renderCmd.Flags().String("lat", "", "latitude in degrees, north positive")
	renderCmd.Flags().String("lon", "", "longitude in degrees, east positive")
	renderCmd.Flags().Int("division", chart.MinDivision, "divisional chart to show (1-30)")
	renderCmd.Flags().String("dasha-date", "", "reference date for the active dashas (default today)")
	renderCmd.Flags().String("chart", "", "render a saved engine result instead of running the engine")
	renderCmd.Flags().Bool("export", false, "upload the report to the configured S3 bucket")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	division, _ := cmd.Flags().GetInt("division")
	if err := chart.ValidateDivision(division); err != nil {
		return err
	}

	ref, _ := cmd.Flags().GetString("dasha-date")
	if ref != "" {
		if _, err := utils.ParseDate(ref); err != nil {
			return apperrors.NewValidationError("dasha-date", fmt.Sprintf("%q is not a YYYY-MM-DD date", ref))
		}
	}

	chartFile, _ := cmd.Flags().GetString("chart")
	in, err := birthFromFlags(cmd, chartFile != "")
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	repo, clients, err := openArchive(ctx, cfg)
	if err != nil {
		return err
	}
	defer clients.Close()

	sess := newSession(buildEngine(cfg, chartFile, log), repo, log)
	snap, err := sess.Generate(ctx, in, os.Getenv("USER"))
	if err != nil {
		return err
	}

	if ref == "" {
		ref = sess.Today()
	}
	report := render.Report(snap, division, ref)
	fmt.Fprint(cmd.OutOrStdout(), report)

	if doExport, _ := cmd.Flags().GetBool("export"); doExport {
		return exportReport(ctx, cfg.Repository(), snap, report, cmd, log)
	}
	return nil
}

// birthFromFlags parses the birth flags. With a saved chart they are
// optional and only feed the business key.
func birthFromFlags(cmd *cobra.Command, optional bool) (engine.BirthData, error) {
	raw := engine.RawInput{}
	raw.Date, _ = cmd.Flags().GetString("date")
	raw.Time, _ = cmd.Flags().GetString("time")
	raw.Second, _ = cmd.Flags().GetString("sec")
	raw.UTCOffset, _ = cmd.Flags().GetString("tz")
	raw.Latitude, _ = cmd.Flags().GetString("lat")
	raw.Longitude, _ = cmd.Flags().GetString("lon")

	if optional && raw.Date == "" && raw.Time == "" {
		return engine.BirthData{}, nil
	}
	return engine.ParseBirthInput(raw)
}

func exportReport(ctx context.Context, rc *repository.Config, snap *session.Snapshot, report string, cmd *cobra.Command, log zerolog.Logger) error {
	s3Client, err := repository.NewS3Client(ctx, rc)
	if err != nil {
		return err
	}

	uri, err := export.FromClients(s3Client, log).Export(ctx, snap.ID, snap.Audit, os.Getenv("USER"), report)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "report exported to %s\n", uri)
	return nil
}

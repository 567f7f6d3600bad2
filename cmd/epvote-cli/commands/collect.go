package commands

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"strconv"
	"time"

	"epvote-monitor/lib/configutil"
	"epvote-monitor/lib/scrapers/europarl"
	"epvote-monitor/lib/scrapers/hemicycle"
	"epvote-monitor/lib/serviceutil"
	"epvote-monitor/lib/sqliteutil"
	"epvote-monitor/services/collector"
	"epvote-monitor/services/collector/db"
	"epvote-monitor/services/export"
	"epvote-monitor/services/rollcall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jedib0t/go-pretty/v6/table"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

type Config struct {
	// postgres connection string for the warehouse
	Postgres string `json:"postgres"`
	// local directory for the csv archive; ignored when a bucket is set
	ArchiveDir string `json:"archive_dir"`
	// s3 bucket for the csv archive
	Bucket string `json:"bucket"`
	// sqlite path for raw fetch snapshots
	SnapshotDb string `json:"snapshot_db"`
}

var (
	collectYear  *int
	collectMonth *int
	collectPrint *bool
)

func init() {
	collectYear = collectCmd.Flags().Int("year", 0, "The year to collect.")
	collectMonth = collectCmd.Flags().Int("month", 0, "The month to collect (1-12).")
	collectPrint = collectCmd.Flags().Bool("print", false, "Print the assembled voting summary as a table.")
	collectCmd.MarkFlagRequired("year")
	collectCmd.MarkFlagRequired("month")
	rootCmd.AddCommand(collectCmd)
}

func createService(cfg Config) (collector.Service, func()) {
	client, err := europarl.NewClient()
	if err != nil {
		serviceutil.Fatal("failed to initialize parliament client", err)
	}

	warehouse, err := sql.Open("postgres", cfg.Postgres)
	if err != nil {
		serviceutil.Fatal("failed to open warehouse db", err)
	}

	snapshotPath := cfg.SnapshotDb
	if snapshotPath == "" {
		snapshotPath = ".dev/snapshots.db"
	}
	snapshots, err := sqliteutil.OpenDB(db.Schema, snapshotPath)
	if err != nil {
		serviceutil.Fatal("failed to open snapshot db", err)
	}

	objects := createObjectStore(cfg)
	svc := collector.NewService(
		client,
		hemicycle.NewRestyRenderer(),
		objects,
		export.NewPostgresStore(warehouse),
		snapshots,
	)
	cleanup := func() {
		warehouse.Close()
		snapshots.Close()
	}
	return svc, cleanup
}

func createObjectStore(cfg Config) export.ObjectStore {
	if cfg.Bucket == "" {
		dir := cfg.ArchiveDir
		if dir == "" {
			dir = "archive"
		}
		return export.DirStore{Root: dir}
	}

	awscfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		serviceutil.Fatal("failed to load aws config", err)
	}
	return export.NewS3Store(s3.NewFromConfig(awscfg), cfg.Bucket)
}

var collectCmd = &cobra.Command{
	Use:   "collect --year <year> --month <month> [--print]",
	Short: "Collects one month of roll-call votes and exports them.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := configutil.ReadConfig[Config]("config.json5")
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}

		svc, cleanup := createService(cfg)
		defer cleanup()

		t1 := time.Now()
		month, err := svc.CollectMonth(cmd.Context(), *collectYear, time.Month(*collectMonth))
		if err != nil {
			if !collector.IsReferenceGap(err) {
				serviceutil.Fatal("collection failed", err)
			}
			// gaps surface after the outputs are written
			slog.Warn("collection finished with reference data gaps", "err", err)
		}
		t2 := time.Now()

		slog.Info("collection time", "seconds", t2.Sub(t1).Seconds())
		slog.Info("collected", "votes", len(month.Summary), "ballots", len(month.Ballots), "members", len(month.Members))

		if *collectPrint {
			printSummary(month)
		}
	},
}

func printSummary(month collector.Month) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"VoteId", "Date", "Title", "Leg/Non-Leg/Bud", "Rapporteur", "Vote", "Yes", "No", "Abs"})

	for _, row := range month.Summary {
		t.AppendRow(table.Row{
			row.VoteID,
			formatCell(row.Date),
			row.Title,
			row.LegType,
			row.Rapporteur,
			formatTriCell(row.Outcome),
			formatCountCell(row.Yes),
			formatCountCell(row.No),
			formatCountCell(row.Abs),
		})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func formatCell(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func formatTriCell(t rollcall.Tri) string {
	switch t {
	case rollcall.TriTrue:
		return "adopted"
	case rollcall.TriFalse:
		return "rejected"
	}
	return "-"
}

func formatCountCell(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/assistidads/assist-lead-hub-sub000/internal/auth"
	"github.com/assistidads/assist-lead-hub-sub000/internal/config"
	"github.com/assistidads/assist-lead-hub-sub000/internal/period"
	"github.com/assistidads/assist-lead-hub-sub000/internal/repository/postgres"
	"github.com/assistidads/assist-lead-hub-sub000/internal/service"
	"github.com/assistidads/assist-lead-hub-sub000/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "report",
		Usage: "Print the lead and ads report for a day, month or date range",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "db-url",
				Usage:   "Database connection string (defaults to the DB_* settings)",
				EnvVars: []string{"DATABASE_URL"},
			},
			&cli.StringFlag{
				Name:  "period",
				Usage: "day, month or range",
				Value: "month",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "Day (YYYY-MM-DD) or month (YYYY-MM); defaults to today",
			},
			&cli.StringFlag{
				Name:  "from",
				Usage: "Range start (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:  "to",
				Usage: "Range end, inclusive (YYYY-MM-DD)",
			},
			&cli.StringFlag{
				Name:    "timezone",
				Usage:   "IANA timezone the periods are cut in",
				EnvVars: []string{"REPORT_TIMEZONE"},
			},
			&cli.Int64Flag{
				Name:  "agent-id",
				Usage: "Restrict the report to one agent's prospects",
			},
			&cli.IntFlag{
				Name:  "top",
				Usage: "Rows per breakdown",
				Value: 5,
			},
		},
		Action: runReport,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runReport(c *cli.Context) error {
	cfg := config.Load()
	logger.Setup("debug", cfg.Server.LogLevel)

	dsn := strings.TrimSpace(c.String("db-url"))
	if dsn == "" {
		dsn = cfg.Database.DSN()
	}
	raw, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	db := postgres.Wrap(raw, 1)
	defer db.Close()

	tz := c.String("timezone")
	if tz == "" {
		tz = cfg.Report.Timezone
	}

	svc := service.NewReportService(
		postgres.NewLeadRepository(db.DB),
		postgres.NewReferenceRepository(db.DB),
		postgres.NewBudgetRepository(db),
		service.ReportOptions{
			Location:  period.LoadLocation(tz),
			TopCities: c.Int("top"),
		},
	)

	session := auth.Session{UserID: "report-cli", Role: auth.RoleAdmin}
	if agentID := c.Int64("agent-id"); agentID > 0 {
		session = auth.Session{UserID: "report-cli", Role: auth.RoleCS, AgentID: agentID}
	}

	req := service.ReportRequest{
		Granularity: c.String("period"),
		Date:        c.String("date"),
		From:        c.String("from"),
		To:          c.String("to"),
	}

	leads, err := svc.LeadReport(c.Context, session, req)
	if err != nil {
		return fmt.Errorf("failed to build lead report: %w", err)
	}
	ads, err := svc.AdsReport(c.Context, session, req)
	if err != nil {
		return fmt.Errorf("failed to build ads report: %w", err)
	}

	return render(os.Stdout, leads, ads, c.Int("top"))
}

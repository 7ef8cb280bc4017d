package main

import (
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/loader"
	"github.com/andresuchdata/stationops/backend-go/internal/metrics"
	"github.com/andresuchdata/stationops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stationops/backend-go/internal/service"
	"github.com/urfave/cli/v2"
)

func reportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "report",
		Usage:  "Compute loss and commission reports straight from the database",
		Flags:  []cli.Flag{newDBURLFlag()},
		Before: initDB,
		After:  closeDB,
		Subcommands: []*cli.Command{
			{
				Name:  "loss",
				Usage: "Loss analysis of one station for the month of --as-of",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "station", Required: true},
					newAsOfFlag(),
					&cli.StringFlag{Name: "meter-delta", Value: cfg.Metrics.MeterDeltaPolicy, Usage: "clamp or signed"},
				},
				Action: func(c *cli.Context) error {
					db, err := dbFrom(c)
					if err != nil {
						return err
					}
					policy, err := metrics.ParseMeterDeltaPolicy(c.String("meter-delta"))
					if err != nil {
						return err
					}
					asOf, err := parseAsOf(c.String("as-of"), cfg.App.Location(), nowFunc())
					if err != nil {
						return err
					}

					svc := service.NewDashboardService(
						postgres.NewStationRepository(db),
						postgres.NewOperationsRepository(db),
						nil,
						service.DashboardOptions{
							CommissionRate: cfg.Metrics.CommissionRate,
							MeterDelta:     policy,
							Loader:         loader.Options{Limit: cfg.Loader.Concurrency, TaskTimeout: cfg.Loader.TaskTimeout()},
						},
					)
					loss, err := svc.StationLoss(c.Context, operator, c.String("station"), asOf)
					if err != nil {
						return err
					}
					if loss == nil {
						_, err = fmt.Fprintf(c.App.Writer, "station %s has no tank dips in %s\n", c.String("station"), metrics.MonthKey(asOf))
						return err
					}
					return printJSON(c, loss)
				},
			},
			{
				Name:  "commission",
				Usage: "Commission stats of a dealer as of --as-of",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dealer", Required: true},
					newAsOfFlag(),
				},
				Action: func(c *cli.Context) error {
					db, err := dbFrom(c)
					if err != nil {
						return err
					}
					asOf, err := parseAsOf(c.String("as-of"), cfg.App.Location(), nowFunc())
					if err != nil {
						return err
					}

					svc := service.NewCommissionService(postgres.NewStationRepository(db), postgres.NewOperationsRepository(db), cfg.Metrics.CommissionRate)
					stats, err := svc.Stats(c.Context, operator, c.String("dealer"), asOf)
					if err != nil {
						return err
					}
					return printJSON(c, stats)
				},
			},
		},
	}
}

func printJSON(c *cli.Context, v any) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/config"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/export"
	"github.com/andresuchdata/stationops/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/stationops/backend-go/internal/service"
	"github.com/andresuchdata/stationops/backend-go/internal/storage"
	"github.com/andresuchdata/stationops/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

var nowFunc = time.Now

func exportFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "format", Value: "csv", Usage: "csv, json or xlsx"},
		&cli.StringFlag{Name: "out", Usage: "Output file; defaults to the export dir"},
		&cli.BoolFlag{Name: "upload", Usage: "Also upload the file to the configured bucket"},
	}
}

func exportCommand(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export stations or expenses and optionally upload them",
		Subcommands: []*cli.Command{
			{
				Name:   "stations",
				Flags:  append(exportFlags(), newDBURLFlag(), &cli.StringFlag{Name: "region"}, &cli.StringFlag{Name: "status"}),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					db, err := dbFrom(c)
					if err != nil {
						return err
					}
					svc := service.NewStationService(postgres.NewStationRepository(db), nil, nil)
					stations, err := svc.List(c.Context, operator, domain.StationFilter{Region: c.String("region"), Status: c.String("status")})
					if err != nil {
						return err
					}
					return writeDataset(c, cfg, export.Stations(stations))
				},
			},
			{
				Name: "expenses",
				Flags: append(exportFlags(), newDBURLFlag(),
					&cli.StringFlag{Name: "station"}, &cli.StringFlag{Name: "status"},
					&cli.StringFlag{Name: "from"}, &cli.StringFlag{Name: "to"}),
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					db, err := dbFrom(c)
					if err != nil {
						return err
					}
					svc := service.NewExpenseService(postgres.NewExpenseRepository(db), postgres.NewStationRepository(db))
					expenses, err := svc.List(c.Context, operator, domain.ExpenseFilter{
						StationID: c.String("station"),
						Status:    c.String("status"),
						From:      c.String("from"),
						To:        c.String("to"),
					})
					if err != nil {
						return err
					}
					return writeDataset(c, cfg, export.Expenses(expenses))
				},
			},
			{
				Name:  "list",
				Usage: "List uploaded exports",
				Flags: []cli.Flag{&cli.StringFlag{Name: "prefix", Value: "exports/"}},
				Action: func(c *cli.Context) error {
					client, err := newObjectStorage(cfg.Storage)
					if err != nil {
						return err
					}
					objects, err := client.ListObjects(c.Context, c.String("prefix"))
					if err != nil {
						return err
					}
					for _, obj := range objects {
						fmt.Fprintf(c.App.Writer, "%10d  %s\n", obj.Size, obj.Key)
					}
					return nil
				},
			},
		},
	}
}

func newObjectStorage(cfg config.StorageConfig) (storage.ObjectStorage, error) {
	return storage.NewS3Client(storage.S3Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
}

func writeDataset(c *cli.Context, cfg *config.Config, ds export.Dataset) error {
	format, err := export.ParseFormat(c.String("format"))
	if err != nil {
		return err
	}
	data, err := export.Encode(format, ds)
	if err != nil {
		return fmt.Errorf("encode %s export: %w", ds.Name, err)
	}

	now := nowFunc()
	path := outputPath(c.String("out"), cfg.App.ExportDir, export.Filename(ds, format, now))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed writing %s: %w", path, err)
	}
	logger.Log.Info().Str("path", path).Int("rows", len(ds.Rows)).Msg("export written")

	if !c.Bool("upload") {
		return nil
	}

	client, err := newObjectStorage(cfg.Storage)
	if err != nil {
		return err
	}
	key := storage.ExportKey(ds.Name, format.Extension(), now)
	if err := client.UploadObject(c.Context, key, format.ContentType(), data); err != nil {
		return err
	}
	logger.Log.Info().Str("key", key).Msg("export uploaded")
	return nil
}

func outputPath(out, exportDir, filename string) string {
	if out != "" {
		return out
	}
	if exportDir == "" {
		exportDir = "."
	}
	return filepath.Join(exportDir, filename)
}

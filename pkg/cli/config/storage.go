package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/testgenie/pkg/service/storage"
	"github.com/urfave/cli/v3"
)

// Storage holds configuration of the export archive bucket
type Storage struct {
	bucket string
	prefix string
}

func (x *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "export-bucket",
			Usage:       "Cloud Storage bucket keeping a copy of every CSV export",
			Category:    "Storage",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("TESTGENIE_EXPORT_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "export-prefix",
			Usage:       "Object name prefix in the export bucket",
			Category:    "Storage",
			Value:       "exports",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("TESTGENIE_EXPORT_PREFIX"),
		},
	}
}

func (x Storage) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("bucket", x.bucket),
		slog.String("prefix", x.prefix),
	)
}

// Configure creates the export archiver. It returns nil when no bucket is
// set. The caller closes the returned archiver.
func (x *Storage) Configure(ctx context.Context) (*storage.Archiver, error) {
	if x.bucket == "" {
		return nil, nil
	}

	archiver, err := storage.New(ctx, x.bucket, storage.WithPrefix(x.prefix))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create export archiver", goerr.V("bucket", x.bucket))
	}
	return archiver, nil
}

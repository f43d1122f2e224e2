package commands

import (
	"context"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"

	"github.com/rudderlabs/metastore-builders/archive"
	"github.com/rudderlabs/metastore-builders/catalog"
	"github.com/rudderlabs/metastore-builders/utils/awsutils"
)

// Env carries the dependencies shared by commands.
type Env struct {
	Conf  *config.Config
	Log   logger.Logger
	Stats stats.Stats

	NewGlueAPI func(ctx context.Context) (catalog.GlueAPI, error)
	NewS3API   func(ctx context.Context) (archive.S3API, error)
}

// DefaultEnv talks to AWS using the Metastore.aws.* settings.
func DefaultEnv() *Env {
	conf := config.Default
	return &Env{
		Conf:  conf,
		Log:   logger.NewLogger().Child("metastore-cli"),
		Stats: stats.NOP,
		NewGlueAPI: func(ctx context.Context) (catalog.GlueAPI, error) {
			return catalog.NewGlueAPI(ctx, awsutils.NewSessionConfigFromConfig(conf, "glue"))
		},
		NewS3API: func(ctx context.Context) (archive.S3API, error) {
			return archive.NewS3API(ctx, awsutils.NewSessionConfigFromConfig(conf, "s3"))
		},
	}
}

func (e *Env) repository(ctx context.Context) (catalog.Repository, error) {
	api, err := e.NewGlueAPI(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.NewGlueRepository(e.Conf, e.Log, e.Stats, api), nil
}

func (e *Env) archiver(ctx context.Context) (*archive.Archiver, error) {
	api, err := e.NewS3API(ctx)
	if err != nil {
		return nil, err
	}
	return archive.New(e.Conf, e.Log, api)
}

package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/aws/smithy-go"
	"github.com/cenkalti/backoff/v4"
	"github.com/samber/lo"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"
	obskit "github.com/rudderlabs/rudder-observability-kit/go/labels"

	"github.com/rudderlabs/metastore-builders/metastore"
	"github.com/rudderlabs/metastore-builders/utils/awsutils"
)

// GlueAPI is the subset of the Glue client used by the repository.
type GlueAPI interface {
	CreateDatabase(ctx context.Context, params *glue.CreateDatabaseInput, optFns ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error)
	CreateTable(ctx context.Context, params *glue.CreateTableInput, optFns ...func(*glue.Options)) (*glue.CreateTableOutput, error)
	UpdateTable(ctx context.Context, params *glue.UpdateTableInput, optFns ...func(*glue.Options)) (*glue.UpdateTableOutput, error)
	GetTable(ctx context.Context, params *glue.GetTableInput, optFns ...func(*glue.Options)) (*glue.GetTableOutput, error)
	GetTables(ctx context.Context, params *glue.GetTablesInput, optFns ...func(*glue.Options)) (*glue.GetTablesOutput, error)
	DeleteTable(ctx context.Context, params *glue.DeleteTableInput, optFns ...func(*glue.Options)) (*glue.DeleteTableOutput, error)
}

// NewGlueAPI creates a Glue client for the given session.
func NewGlueAPI(ctx context.Context, sessionConfig *awsutils.SessionConfig) (*glue.Client, error) {
	cfg, err := awsutils.CreateConfig(ctx, sessionConfig)
	if err != nil {
		return nil, fmt.Errorf("creating glue config: %w", err)
	}
	return glue.NewFromConfig(cfg), nil
}

type GlueRepository struct {
	conf         *config.Config
	api          GlueAPI
	logger       logger.Logger
	statsFactory stats.Stats

	config struct {
		catalogID            string
		replaceExisting      bool
		maxRetries           int
		retryInitialInterval time.Duration
	}
}

func NewGlueRepository(conf *config.Config, log logger.Logger, statsFactory stats.Stats, api GlueAPI) *GlueRepository {
	g := &GlueRepository{
		conf:         conf,
		api:          api,
		logger:       log.Child("catalog").Child("glue"),
		statsFactory: statsFactory,
	}
	g.config.catalogID = conf.GetString("Metastore.glue.catalogID", "")
	g.config.replaceExisting = conf.GetBool("Metastore.glue.replaceExisting", false)
	g.config.maxRetries = conf.GetInt("Metastore.glue.maxRetries", 3)
	g.config.retryInitialInterval = conf.GetDuration("Metastore.glue.retryInitialInterval", 500, time.Millisecond)
	return g
}

func (g *GlueRepository) CreateDatabase(ctx context.Context, dbName string) error {
	err := g.call(ctx, "create_database", func() error {
		_, err := g.api.CreateDatabase(ctx, &glue.CreateDatabaseInput{
			CatalogId:     g.catalogID(),
			DatabaseInput: &gluetypes.DatabaseInput{Name: aws.String(dbName)},
		})
		return err
	})

	var alreadyExists *gluetypes.AlreadyExistsException
	if errors.As(err, &alreadyExists) {
		g.logger.Infon("Skipping database creation: database already exists",
			obskit.Namespace(dbName),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("creating database %q: %w", dbName, err)
	}
	return nil
}

func (g *GlueRepository) CreateView(ctx context.Context, view *metastore.Table) error {
	if !view.IsView() {
		return ErrNotAView
	}

	catalogID := g.resolveCatalogID(lo.FromPtr(view.CatName))
	input := toTableInput(view)

	err := g.call(ctx, "create_table", func() error {
		_, err := g.api.CreateTable(ctx, &glue.CreateTableInput{
			CatalogId:    catalogID,
			DatabaseName: aws.String(view.DbName),
			TableInput:   input,
		})
		return err
	})

	var alreadyExists *gluetypes.AlreadyExistsException
	switch {
	case err == nil:
		g.logger.Infon("Created view",
			obskit.Namespace(view.DbName),
			logger.NewStringField("view", view.TableName),
		)
		return nil
	case !errors.As(err, &alreadyExists):
		return fmt.Errorf("creating view %s: %w", view.QualifiedName(), err)
	case !g.config.replaceExisting:
		return fmt.Errorf("creating view %s: %w", view.QualifiedName(), ErrViewAlreadyExists)
	}

	err = g.call(ctx, "update_table", func() error {
		_, err := g.api.UpdateTable(ctx, &glue.UpdateTableInput{
			CatalogId:    catalogID,
			DatabaseName: aws.String(view.DbName),
			TableInput:   input,
		})
		return err
	})
	if err != nil {
		return fmt.Errorf("replacing view %s: %w", view.QualifiedName(), err)
	}
	g.logger.Infon("Replaced existing view",
		obskit.Namespace(view.DbName),
		logger.NewStringField("view", view.TableName),
	)
	return nil
}

func (g *GlueRepository) GetView(ctx context.Context, catalog, dbName, viewName string) (*metastore.Table, error) {
	var output *glue.GetTableOutput
	err := g.call(ctx, "get_table", func() (err error) {
		output, err = g.api.GetTable(ctx, &glue.GetTableInput{
			CatalogId:    g.resolveCatalogID(catalog),
			DatabaseName: aws.String(dbName),
			Name:         aws.String(viewName),
		})
		return err
	})

	var entityNotFound *gluetypes.EntityNotFoundException
	if errors.As(err, &entityNotFound) {
		return nil, fmt.Errorf("getting view %s.%s: %w", dbName, viewName, ErrViewNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("getting view %s.%s: %w", dbName, viewName, err)
	}
	if output.Table == nil {
		return nil, fmt.Errorf("getting view %s.%s: %w", dbName, viewName, ErrViewNotFound)
	}

	table := fromGlueTable(output.Table)
	if table.DbName == "" {
		table.DbName = dbName
	}
	if catalog != "" {
		table.CatName = aws.String(catalog)
	}
	if !table.IsView() {
		return nil, fmt.Errorf("getting view %s.%s of type %q: %w", dbName, viewName, table.TableType, ErrNotAView)
	}
	return table, nil
}

func (g *GlueRepository) ListViews(ctx context.Context, catalog, dbName string) ([]*metastore.Table, error) {
	var (
		views     []*metastore.Table
		nextToken *string
	)
	for {
		input := &glue.GetTablesInput{
			CatalogId:    g.resolveCatalogID(catalog),
			DatabaseName: aws.String(dbName),
			NextToken:    nextToken,
		}

		var output *glue.GetTablesOutput
		err := g.call(ctx, "get_tables", func() (err error) {
			output, err = g.api.GetTables(ctx, input)
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("listing views in %s: %w", dbName, err)
		}

		for i := range output.TableList {
			table := fromGlueTable(&output.TableList[i])
			if !table.IsView() {
				continue
			}
			if table.DbName == "" {
				table.DbName = dbName
			}
			if catalog != "" {
				table.CatName = aws.String(catalog)
			}
			views = append(views, table)
		}

		// more list segments
		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}
	return views, nil
}

func (g *GlueRepository) DropView(ctx context.Context, catalog, dbName, viewName string) error {
	if _, err := g.GetView(ctx, catalog, dbName, viewName); err != nil {
		return fmt.Errorf("dropping view: %w", err)
	}

	err := g.call(ctx, "delete_table", func() error {
		_, err := g.api.DeleteTable(ctx, &glue.DeleteTableInput{
			CatalogId:    g.resolveCatalogID(catalog),
			DatabaseName: aws.String(dbName),
			Name:         aws.String(viewName),
		})
		return err
	})

	var entityNotFound *gluetypes.EntityNotFoundException
	if errors.As(err, &entityNotFound) {
		return fmt.Errorf("dropping view %s.%s: %w", dbName, viewName, ErrViewNotFound)
	}
	if err != nil {
		return fmt.Errorf("dropping view %s.%s: %w", dbName, viewName, err)
	}
	g.logger.Infon("Dropped view",
		obskit.Namespace(dbName),
		logger.NewStringField("view", viewName),
	)
	return nil
}

func (g *GlueRepository) catalogID() *string {
	return lo.EmptyableToPtr(g.config.catalogID)
}

// resolveCatalogID maps a metastore catalog name to a Glue catalog id. Empty
// and the default hive catalog use Metastore.glue.catalogID, other names are
// looked up under Metastore.glue.catalogs.<name> and otherwise taken as an
// account id.
func (g *GlueRepository) resolveCatalogID(catalog string) *string {
	if catalog == "" || catalog == metastore.DefaultCatalogName {
		return g.catalogID()
	}
	return aws.String(g.conf.GetString("Metastore.glue.catalogs."+catalog, catalog))
}

// call runs a single Glue operation, retrying transient failures and
// recording request stats tagged by operation.
func (g *GlueRepository) call(ctx context.Context, operation string, fn func() error) error {
	tags := stats.Tags{"operation": operation}
	requests := g.statsFactory.NewTaggedStat("metastore_glue_requests", stats.CountType, tags)
	latency := g.statsFactory.NewTaggedStat("metastore_glue_request_latency", stats.TimerType, tags)
	failures := g.statsFactory.NewTaggedStat("metastore_glue_request_errors", stats.CountType, tags)

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = g.config.retryInitialInterval

	start := time.Now()
	err := backoff.RetryNotify(func() error {
		requests.Count(1)
		err := fn()
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, uint64(g.config.maxRetries)), ctx), func(err error, d time.Duration) {
		g.logger.Warnn("Retrying glue request",
			logger.NewStringField("operation", operation),
			logger.NewDurationField("backoff", d),
			obskit.Error(err),
		)
	})
	latency.Since(start)
	if err != nil {
		failures.Count(1)
	}
	return err
}

func isRetryable(err error) bool {
	var (
		concurrentModification *gluetypes.ConcurrentModificationException
		operationTimeout       *gluetypes.OperationTimeoutException
		internalService        *gluetypes.InternalServiceException
		apiErr                 smithy.APIError
	)
	switch {
	case errors.As(err, &concurrentModification),
		errors.As(err, &operationTimeout),
		errors.As(err, &internalService):
		return true
	case errors.As(err, &apiErr):
		return apiErr.ErrorCode() == "ThrottlingException"
	}
	return false
}

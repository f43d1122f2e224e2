// Package archive keeps thrift-encoded view records in an S3 bucket.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/samber/lo"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	obskit "github.com/rudderlabs/rudder-observability-kit/go/labels"

	"github.com/rudderlabs/metastore-builders/metastore"
	"github.com/rudderlabs/metastore-builders/utils/awsutils"
)

// DefaultCatalog is the key segment used for records without a catalog name.
const DefaultCatalog = metastore.DefaultCatalogName

var ErrMissingBucket = errors.New("archive bucket is not configured")

type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// NewS3API creates an S3 client for the given session. Custom endpoints use
// path-style addressing.
func NewS3API(ctx context.Context, sessionConfig *awsutils.SessionConfig) (*s3.Client, error) {
	cfg, err := awsutils.CreateConfig(ctx, sessionConfig)
	if err != nil {
		return nil, fmt.Errorf("creating s3 config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = sessionConfig.Endpoint != ""
	}), nil
}

type Archiver struct {
	api    S3API
	logger logger.Logger

	bucket   string
	prefix   string
	protocol metastore.Protocol
}

func New(conf *config.Config, log logger.Logger, api S3API) (*Archiver, error) {
	bucket := conf.GetString("Metastore.archive.bucket", "")
	if bucket == "" {
		return nil, ErrMissingBucket
	}
	protocol, err := metastore.ParseProtocol(conf.GetString("Metastore.archive.protocol", string(metastore.ProtocolCompact)))
	if err != nil {
		return nil, fmt.Errorf("archive protocol: %w", err)
	}
	return &Archiver{
		api:      api,
		logger:   log.Child("archive"),
		bucket:   bucket,
		prefix:   conf.GetString("Metastore.archive.prefix", ""),
		protocol: protocol,
	}, nil
}

// Key returns the object key of a view record.
func (a *Archiver) Key(catalog, dbName, viewName string) string {
	catalog = lo.CoalesceOrEmpty(catalog, DefaultCatalog)
	return path.Join(a.prefix, catalog, dbName, viewName+"."+string(a.protocol))
}

// Upload encodes table and stores it, returning its s3:// location.
func (a *Archiver) Upload(ctx context.Context, table *metastore.Table) (string, error) {
	data, err := metastore.Marshal(ctx, table, a.protocol)
	if err != nil {
		return "", fmt.Errorf("archiving %s: %w", table.QualifiedName(), err)
	}

	key := a.Key(lo.FromPtr(table.CatName), table.DbName, table.TableName)
	_, err = a.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(a.protocol)),
	})
	if err != nil {
		return "", fmt.Errorf("uploading %s to %s: %w", table.QualifiedName(), key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", a.bucket, key)
	a.logger.Infon("Archived view",
		obskit.Namespace(table.DbName),
		logger.NewStringField("view", table.TableName),
		logger.NewStringField("location", location),
		logger.NewIntField("size", int64(len(data))),
	)
	return location, nil
}

// Download fetches and decodes a view record. An empty catalog selects the
// default one.
func (a *Archiver) Download(ctx context.Context, catalog, dbName, viewName string) (*metastore.Table, error) {
	key := a.Key(catalog, dbName, viewName)
	output, err := a.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", key, err)
	}
	defer func() { _ = output.Body.Close() }()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	table := metastore.NewTable()
	if err := metastore.Unmarshal(ctx, data, table, a.protocol); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", key, err)
	}
	return table, nil
}

func contentType(p metastore.Protocol) string {
	return "application/vnd.apache.thrift." + string(p)
}

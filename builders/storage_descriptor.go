package builders

import (
	"maps"
	"slices"

	"github.com/samber/lo"

	"github.com/rudderlabs/metastore-builders/metastore"
)

// Hive parquet SerDe and formats.
const (
	ParquetSerDeName        = "ParquetHiveSerDe"
	ParquetSerializationLib = "org.apache.hadoop.hive.ql.io.parquet.serde.ParquetHiveSerDe"
	ParquetInputFormat      = "org.apache.hadoop.hive.ql.io.parquet.MapredParquetInputFormat"
	ParquetOutputFormat     = "org.apache.hadoop.hive.ql.io.parquet.MapredParquetOutputFormat"
)

// ColumnBuilder builds a metastore FieldSchema.
type ColumnBuilder struct {
	name    string
	typ     string
	comment string
}

type ColumnOption func(*ColumnBuilder)

func WithComment(comment string) ColumnOption {
	return func(b *ColumnBuilder) { b.comment = comment }
}

func NewColumnBuilder(name, typ string, opts ...ColumnOption) *ColumnBuilder {
	b := &ColumnBuilder{name: name, typ: typ}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *ColumnBuilder) Build() *metastore.FieldSchema {
	return &metastore.FieldSchema{Name: b.name, Type: b.typ, Comment: b.comment}
}

// SerDeInfoBuilder builds a metastore SerDeInfo.
type SerDeInfoBuilder struct {
	name             string
	serializationLib string
	parameters       map[string]string
}

type SerDeInfoOption func(*SerDeInfoBuilder)

func WithSerDeName(name string) SerDeInfoOption {
	return func(b *SerDeInfoBuilder) { b.name = name }
}

func WithSerializationLib(lib string) SerDeInfoOption {
	return func(b *SerDeInfoBuilder) { b.serializationLib = lib }
}

func WithSerDeParameters(parameters map[string]string) SerDeInfoOption {
	return func(b *SerDeInfoBuilder) { b.parameters = maps.Clone(parameters) }
}

func NewSerDeInfoBuilder(opts ...SerDeInfoOption) *SerDeInfoBuilder {
	b := &SerDeInfoBuilder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.parameters == nil {
		b.parameters = map[string]string{}
	}
	return b
}

func (b *SerDeInfoBuilder) Build() *metastore.SerDeInfo {
	return &metastore.SerDeInfo{
		Name:             b.name,
		SerializationLib: b.serializationLib,
		Parameters:       maps.Clone(b.parameters),
	}
}

// StorageDescriptorBuilder builds a metastore StorageDescriptor. Collections
// left unset are built as empty, never nil, since the metastore treats them as
// required.
type StorageDescriptorBuilder struct {
	columns                []*metastore.FieldSchema
	location               string
	inputFormat            string
	outputFormat           string
	compressed             bool
	numBuckets             int32
	serdeInfo              *metastore.SerDeInfo
	bucketColumns          []string
	sortColumns            []*metastore.Order
	parameters             map[string]string
	storedAsSubDirectories *bool
}

type StorageDescriptorOption func(*StorageDescriptorBuilder)

func WithInputFormat(format string) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.inputFormat = format }
}

func WithOutputFormat(format string) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.outputFormat = format }
}

func WithCompressed(compressed bool) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.compressed = compressed }
}

// WithBuckets sets the bucket count and the columns rows are bucketed by.
func WithBuckets(numBuckets int32, columns ...string) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) {
		b.numBuckets = numBuckets
		b.bucketColumns = slices.Clone(columns)
	}
}

func WithSerDeInfo(serdeInfo *metastore.SerDeInfo) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.serdeInfo = serdeInfo }
}

func WithSortColumns(orders ...*metastore.Order) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.sortColumns = slices.Clone(orders) }
}

func WithStorageParameters(parameters map[string]string) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.parameters = maps.Clone(parameters) }
}

func WithStoredAsSubDirectories(stored bool) StorageDescriptorOption {
	return func(b *StorageDescriptorBuilder) { b.storedAsSubDirectories = &stored }
}

func NewStorageDescriptorBuilder(columns []*metastore.FieldSchema, location string, opts ...StorageDescriptorOption) *StorageDescriptorBuilder {
	b := &StorageDescriptorBuilder{
		columns:  slices.Clone(columns),
		location: location,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *StorageDescriptorBuilder) Build() *metastore.StorageDescriptor {
	return &metastore.StorageDescriptor{
		Cols:                   nonNil(slices.Clone(b.columns)),
		Location:               b.location,
		InputFormat:            b.inputFormat,
		OutputFormat:           b.outputFormat,
		Compressed:             b.compressed,
		NumBuckets:             b.numBuckets,
		SerdeInfo:              b.serdeInfo,
		BucketCols:             nonNil(slices.Clone(b.bucketColumns)),
		SortCols:               nonNil(slices.Clone(b.sortColumns)),
		Parameters:             lo.Ternary(b.parameters == nil, map[string]string{}, maps.Clone(b.parameters)),
		StoredAsSubDirectories: clonePtr(b.storedAsSubDirectories),
	}
}

// ParquetSerDeInfo returns the SerDe used for parquet backed tables.
func ParquetSerDeInfo() *metastore.SerDeInfo {
	return NewSerDeInfoBuilder(
		WithSerDeName(ParquetSerDeName),
		WithSerializationLib(ParquetSerializationLib),
	).Build()
}

// ParquetStorageDescriptor returns a storage descriptor for parquet files
// under location.
func ParquetStorageDescriptor(columns []*metastore.FieldSchema, location string) *metastore.StorageDescriptor {
	return NewStorageDescriptorBuilder(columns, location,
		WithInputFormat(ParquetInputFormat),
		WithOutputFormat(ParquetOutputFormat),
		WithSerDeInfo(ParquetSerDeInfo()),
	).Build()
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

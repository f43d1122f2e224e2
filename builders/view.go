// Package builders assembles metastore records from named parameters.
package builders

import (
	"maps"

	"github.com/rudderlabs/metastore-builders/metastore"
)

// Builder produces a record of type T. Build never mutates the builder, so it
// can be called any number of times.
type Builder[T any] interface {
	Build() T
}

var (
	_ Builder[*metastore.Table]             = (*ViewBuilder)(nil)
	_ Builder[*metastore.StorageDescriptor] = (*StorageDescriptorBuilder)(nil)
	_ Builder[*metastore.SerDeInfo]         = (*SerDeInfoBuilder)(nil)
	_ Builder[*metastore.FieldSchema]       = (*ColumnBuilder)(nil)
)

// ViewBuilder builds a metastore Table configured as a virtual view.
type ViewBuilder struct {
	viewName          string
	dbName            string
	catName           *string
	owner             *string
	ownerType         metastore.PrincipalType
	createTime        *int32
	lastAccessTime    *int32
	retention         *int32
	storageDescriptor *metastore.StorageDescriptor
	parameters        map[string]string
	viewOriginalText  *string
	viewExpandedText  *string
	privileges        *metastore.PrincipalPrivilegeSet
	temporary         bool
	rewriteEnabled    *bool
	creationMetadata  *metastore.CreationMetadata
	tableType         string
}

type ViewOption func(*ViewBuilder)

func WithOwner(owner string) ViewOption {
	return func(b *ViewBuilder) { b.owner = &owner }
}

// WithOwnerType overrides the USER default.
func WithOwnerType(ownerType metastore.PrincipalType) ViewOption {
	return func(b *ViewBuilder) { b.ownerType = ownerType }
}

func WithCreateTime(createTime int32) ViewOption {
	return func(b *ViewBuilder) { b.createTime = &createTime }
}

// WithLastAccessTime sets the last access time. It is usually filled by the
// storage layer and should not be relied on.
func WithLastAccessTime(lastAccessTime int32) ViewOption {
	return func(b *ViewBuilder) { b.lastAccessTime = &lastAccessTime }
}

func WithRetention(retention int32) ViewOption {
	return func(b *ViewBuilder) { b.retention = &retention }
}

// WithParameters stores comments or any other user level parameters.
func WithParameters(parameters map[string]string) ViewOption {
	return func(b *ViewBuilder) { b.parameters = maps.Clone(parameters) }
}

func WithViewOriginalText(text string) ViewOption {
	return func(b *ViewBuilder) { b.viewOriginalText = &text }
}

func WithViewExpandedText(text string) ViewOption {
	return func(b *ViewBuilder) { b.viewExpandedText = &text }
}

func WithPrivileges(privileges *metastore.PrincipalPrivilegeSet) ViewOption {
	return func(b *ViewBuilder) { b.privileges = privileges }
}

func WithTemporary(temporary bool) ViewOption {
	return func(b *ViewBuilder) { b.temporary = temporary }
}

// WithRewriteEnabled only matters for materialized views.
func WithRewriteEnabled(enabled bool) ViewOption {
	return func(b *ViewBuilder) { b.rewriteEnabled = &enabled }
}

// WithCreationMetadata only matters for materialized views: it records the
// tables used and the transaction list at creation time.
func WithCreationMetadata(metadata *metastore.CreationMetadata) ViewOption {
	return func(b *ViewBuilder) { b.creationMetadata = metadata }
}

func WithCatalogName(catName string) ViewOption {
	return func(b *ViewBuilder) { b.catName = &catName }
}

// NewViewBuilder never fails and validates nothing; malformed records are
// rejected by the catalog they are submitted to.
func NewViewBuilder(viewName, dbName string, storageDescriptor *metastore.StorageDescriptor, opts ...ViewOption) *ViewBuilder {
	b := &ViewBuilder{
		viewName:          viewName,
		dbName:            dbName,
		storageDescriptor: storageDescriptor,
		ownerType:         metastore.PrincipalTypeUser,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.parameters == nil {
		b.parameters = map[string]string{}
	}
	b.tableType = metastore.TableTypeVirtualView
	return b
}

func (b *ViewBuilder) ViewName() string { return b.viewName }

func (b *ViewBuilder) DBName() string { return b.dbName }

func (b *ViewBuilder) TableType() string { return b.tableType }

// Build returns a new Table. Scalars and the parameters map are copied; the
// storage descriptor, privileges and creation metadata are handed over as
// configured.
func (b *ViewBuilder) Build() *metastore.Table {
	return &metastore.Table{
		TableName:        b.viewName,
		DbName:           b.dbName,
		Owner:            clonePtr(b.owner),
		CreateTime:       clonePtr(b.createTime),
		LastAccessTime:   clonePtr(b.lastAccessTime),
		Retention:        clonePtr(b.retention),
		Sd:               b.storageDescriptor,
		Parameters:       maps.Clone(b.parameters),
		ViewOriginalText: clonePtr(b.viewOriginalText),
		ViewExpandedText: clonePtr(b.viewExpandedText),
		TableType:        b.tableType,
		Privileges:       b.privileges,
		Temporary:        b.temporary,
		RewriteEnabled:   clonePtr(b.rewriteEnabled),
		CreationMetadata: b.creationMetadata,
		CatName:          clonePtr(b.catName),
		OwnerType:        b.ownerType,
	}
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

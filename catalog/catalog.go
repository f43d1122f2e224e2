// Package catalog publishes view records to a metadata catalog.
package catalog

//go:generate mockgen -destination=../mocks/catalog/mock_glue.go -package=mock_catalog github.com/rudderlabs/metastore-builders/catalog GlueAPI

import (
	"context"
	"errors"

	"github.com/rudderlabs/metastore-builders/metastore"
)

var (
	ErrViewNotFound      = errors.New("view not found")
	ErrViewAlreadyExists = errors.New("view already exists")
	ErrNotAView          = errors.New("table is not a virtual view")
)

// Repository stores and retrieves virtual views. An empty catalog name
// selects the default catalog.
type Repository interface {
	CreateDatabase(ctx context.Context, dbName string) error
	CreateView(ctx context.Context, view *metastore.Table) error
	GetView(ctx context.Context, catalog, dbName, viewName string) (*metastore.Table, error)
	ListViews(ctx context.Context, catalog, dbName string) ([]*metastore.Table, error)
	DropView(ctx context.Context, catalog, dbName, viewName string) error
}

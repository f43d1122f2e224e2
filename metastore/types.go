// Package metastore mirrors the Hive metastore Thrift IDL records used to
// describe tables and views in a metadata catalog.
//
// Field ids and nullability follow hive_metastore.thrift (Hive 3). Optional
// scalars are pointers, a nil pointer is an unset field and is not written on
// the wire.
package metastore

import (
	"fmt"
	"strings"
)

// Table types understood by the metastore.
const (
	TableTypeManaged          = "MANAGED_TABLE"
	TableTypeExternal         = "EXTERNAL_TABLE"
	TableTypeVirtualView      = "VIRTUAL_VIEW"
	TableTypeMaterializedView = "MATERIALIZED_VIEW"
)

// DefaultCatalogName is the catalog Hive assigns to objects without one.
const DefaultCatalogName = "hive"

// PrincipalType identifies the kind of principal owning or granting an object.
type PrincipalType int32

const (
	PrincipalTypeUser  PrincipalType = 1
	PrincipalTypeRole  PrincipalType = 2
	PrincipalTypeGroup PrincipalType = 3
)

func (p PrincipalType) String() string {
	switch p {
	case PrincipalTypeUser:
		return "USER"
	case PrincipalTypeRole:
		return "ROLE"
	case PrincipalTypeGroup:
		return "GROUP"
	}
	return fmt.Sprintf("PrincipalType(%d)", int32(p))
}

// ParsePrincipalType resolves USER, ROLE or GROUP, ignoring case.
func ParsePrincipalType(s string) (PrincipalType, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "USER":
		return PrincipalTypeUser, nil
	case "ROLE":
		return PrincipalTypeRole, nil
	case "GROUP":
		return PrincipalTypeGroup, nil
	}
	return 0, fmt.Errorf("invalid principal type: %q", s)
}

type FieldSchema struct {
	Name    string
	Type    string
	Comment string
}

type SerDeInfo struct {
	Name             string
	SerializationLib string
	Parameters       map[string]string
}

// Order is a sort column of a storage descriptor. Order is 1 for ascending and
// 0 for descending.
type Order struct {
	Col   string
	Order int32
}

// StorageDescriptor describes the physical layout of a table or view.
// Skewed column information is not modelled.
type StorageDescriptor struct {
	Cols                   []*FieldSchema
	Location               string
	InputFormat            string
	OutputFormat           string
	Compressed             bool
	NumBuckets             int32
	SerdeInfo              *SerDeInfo
	BucketCols             []string
	SortCols               []*Order
	Parameters             map[string]string
	StoredAsSubDirectories *bool
}

type PrivilegeGrantInfo struct {
	Privilege   string
	CreateTime  int32
	Grantor     string
	GrantorType PrincipalType
	GrantOption bool
}

type PrincipalPrivilegeSet struct {
	UserPrivileges  map[string][]*PrivilegeGrantInfo
	GroupPrivileges map[string][]*PrivilegeGrantInfo
	RolePrivileges  map[string][]*PrivilegeGrantInfo
}

// CreationMetadata is only meaningful for materialized views: it captures the
// tables used and the transaction snapshot at creation time.
type CreationMetadata struct {
	CatName             string
	DbName              string
	TblName             string
	TablesUsed          []string
	ValidTxnList        *string
	MaterializationTime *int64
}

// Table is the metastore record for tables and views.
type Table struct {
	TableName string
	DbName    string
	Owner     *string
	// CreateTime and LastAccessTime are seconds since the epoch.
	CreateTime *int32
	// LastAccessTime is usually filled by the storage layer and is advisory.
	LastAccessTime   *int32
	Retention        *int32
	Sd               *StorageDescriptor
	PartitionKeys    []*FieldSchema
	Parameters       map[string]string
	ViewOriginalText *string
	ViewExpandedText *string
	TableType        string
	Privileges       *PrincipalPrivilegeSet
	Temporary        bool
	RewriteEnabled   *bool
	CreationMetadata *CreationMetadata
	CatName          *string
	OwnerType        PrincipalType
}

// NewTable returns a table with the IDL defaults applied.
func NewTable() *Table {
	return &Table{OwnerType: PrincipalTypeUser}
}

// IsView reports whether t describes a virtual view.
func (t *Table) IsView() bool {
	return t != nil && t.TableType == TableTypeVirtualView
}

// QualifiedName returns db.table, prefixed by the catalog when set.
func (t *Table) QualifiedName() string {
	if t.CatName != nil && *t.CatName != "" {
		return *t.CatName + "." + t.DbName + "." + t.TableName
	}
	return t.DbName + "." + t.TableName
}

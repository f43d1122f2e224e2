package catalog

import (
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/samber/lo"

	"github.com/rudderlabs/metastore-builders/metastore"
)

// toTableInput converts a metastore record into a Glue table input.
// Privileges, temporary, rewrite-enabled, creation metadata and owner type
// have no Glue counterpart and are dropped.
func toTableInput(t *metastore.Table) *gluetypes.TableInput {
	input := &gluetypes.TableInput{
		Name:             aws.String(t.TableName),
		Owner:            t.Owner,
		Parameters:       t.Parameters,
		TableType:        aws.String(t.TableType),
		ViewOriginalText: t.ViewOriginalText,
		ViewExpandedText: t.ViewExpandedText,
		Retention:        lo.FromPtr(t.Retention),
		PartitionKeys:    toColumns(t.PartitionKeys),
	}
	if t.LastAccessTime != nil {
		input.LastAccessTime = aws.Time(time.Unix(int64(*t.LastAccessTime), 0).UTC())
	}
	if t.Sd != nil {
		input.StorageDescriptor = toStorageDescriptor(t.Sd)
	}
	return input
}

func toColumns(fields []*metastore.FieldSchema) []gluetypes.Column {
	if fields == nil {
		return nil
	}
	return lo.Map(lo.Compact(fields), func(f *metastore.FieldSchema, _ int) gluetypes.Column {
		return gluetypes.Column{
			Name:    aws.String(f.Name),
			Type:    aws.String(f.Type),
			Comment: lo.EmptyableToPtr(f.Comment),
		}
	})
}

func toStorageDescriptor(sd *metastore.StorageDescriptor) *gluetypes.StorageDescriptor {
	out := &gluetypes.StorageDescriptor{
		Columns:                toColumns(sd.Cols),
		Location:               lo.EmptyableToPtr(sd.Location),
		InputFormat:            lo.EmptyableToPtr(sd.InputFormat),
		OutputFormat:           lo.EmptyableToPtr(sd.OutputFormat),
		Compressed:             sd.Compressed,
		NumberOfBuckets:        sd.NumBuckets,
		BucketColumns:          sd.BucketCols,
		Parameters:             sd.Parameters,
		StoredAsSubDirectories: lo.FromPtr(sd.StoredAsSubDirectories),
		SortColumns: lo.Map(lo.Compact(sd.SortCols), func(o *metastore.Order, _ int) gluetypes.Order {
			return gluetypes.Order{Column: aws.String(o.Col), SortOrder: o.Order}
		}),
	}
	if sd.SerdeInfo != nil {
		out.SerdeInfo = &gluetypes.SerDeInfo{
			Name:                 lo.EmptyableToPtr(sd.SerdeInfo.Name),
			SerializationLibrary: lo.EmptyableToPtr(sd.SerdeInfo.SerializationLib),
			Parameters:           sd.SerdeInfo.Parameters,
		}
	}
	return out
}

func fromGlueTable(t *gluetypes.Table) *metastore.Table {
	table := &metastore.Table{
		TableName:        aws.ToString(t.Name),
		DbName:           aws.ToString(t.DatabaseName),
		Owner:            t.Owner,
		Parameters:       lo.Ternary(t.Parameters == nil, map[string]string{}, t.Parameters),
		ViewOriginalText: t.ViewOriginalText,
		ViewExpandedText: t.ViewExpandedText,
		TableType:        aws.ToString(t.TableType),
		CatName:          t.CatalogId,
		PartitionKeys:    fromColumns(t.PartitionKeys),
		OwnerType:        metastore.PrincipalTypeUser,
	}
	if t.Retention != 0 {
		table.Retention = aws.Int32(t.Retention)
	}
	if t.CreateTime != nil {
		table.CreateTime = aws.Int32(int32(t.CreateTime.Unix()))
	}
	if t.LastAccessTime != nil {
		table.LastAccessTime = aws.Int32(int32(t.LastAccessTime.Unix()))
	}
	if t.StorageDescriptor != nil {
		table.Sd = fromStorageDescriptor(t.StorageDescriptor)
	}
	return table
}

func fromColumns(columns []gluetypes.Column) []*metastore.FieldSchema {
	if columns == nil {
		return nil
	}
	return lo.Map(columns, func(c gluetypes.Column, _ int) *metastore.FieldSchema {
		return &metastore.FieldSchema{
			Name:    aws.ToString(c.Name),
			Type:    aws.ToString(c.Type),
			Comment: aws.ToString(c.Comment),
		}
	})
}

func fromStorageDescriptor(sd *gluetypes.StorageDescriptor) *metastore.StorageDescriptor {
	out := &metastore.StorageDescriptor{
		Cols:                   lo.Ternary(sd.Columns == nil, []*metastore.FieldSchema{}, fromColumns(sd.Columns)),
		Location:               aws.ToString(sd.Location),
		InputFormat:            aws.ToString(sd.InputFormat),
		OutputFormat:           aws.ToString(sd.OutputFormat),
		Compressed:             sd.Compressed,
		NumBuckets:             sd.NumberOfBuckets,
		BucketCols:             lo.Ternary(sd.BucketColumns == nil, []string{}, sd.BucketColumns),
		Parameters:             lo.Ternary(sd.Parameters == nil, map[string]string{}, sd.Parameters),
		StoredAsSubDirectories: aws.Bool(sd.StoredAsSubDirectories),
		SortCols: lo.Map(sd.SortColumns, func(o gluetypes.Order, _ int) *metastore.Order {
			return &metastore.Order{Col: aws.ToString(o.Column), Order: o.SortOrder}
		}),
	}
	if sd.SerdeInfo != nil {
		out.SerdeInfo = &metastore.SerDeInfo{
			Name:             aws.ToString(sd.SerdeInfo.Name),
			SerializationLib: aws.ToString(sd.SerdeInfo.SerializationLibrary),
			Parameters:       lo.Ternary(sd.SerdeInfo.Parameters == nil, map[string]string{}, sd.SerdeInfo.Parameters),
		}
	}
	return out
}

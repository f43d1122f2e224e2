package builders_test

import (
	"context"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"github.com/rudderlabs/metastore-builders/builders"
	"github.com/rudderlabs/metastore-builders/metastore"
)

func testStorageDescriptor() *metastore.StorageDescriptor {
	return builders.ParquetStorageDescriptor(
		[]*metastore.FieldSchema{
			builders.NewColumnBuilder("id", "string").Build(),
			builders.NewColumnBuilder("received_at", "timestamp", builders.WithComment("event time")).Build(),
		},
		"s3://bucket/analytics/v1",
	)
}

func TestViewBuilder(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		sd := testStorageDescriptor()

		table := builders.NewViewBuilder("v1", "analytics", sd).Build()

		require.Equal(t, &metastore.Table{
			TableName:  "v1",
			DbName:     "analytics",
			Sd:         sd,
			Parameters: map[string]string{},
			TableType:  "VIRTUAL_VIEW",
			Temporary:  false,
			OwnerType:  metastore.PrincipalTypeUser,
		}, table)
		require.Same(t, sd, table.Sd)
		require.True(t, table.IsView())
	})

	t.Run("nil parameters become empty", func(t *testing.T) {
		table := builders.NewViewBuilder("v1", "analytics", nil, builders.WithParameters(nil)).Build()
		require.NotNil(t, table.Parameters)
		require.Empty(t, table.Parameters)
	})

	t.Run("every option is mapped to its field", func(t *testing.T) {
		sd := testStorageDescriptor()
		privileges := &metastore.PrincipalPrivilegeSet{
			UserPrivileges: map[string][]*metastore.PrivilegeGrantInfo{
				"alice": {{Privilege: "SELECT", Grantor: "admin", GrantorType: metastore.PrincipalTypeUser}},
			},
		}
		creationMetadata := &metastore.CreationMetadata{
			CatName:    "hive",
			DbName:     "analytics",
			TblName:    "v1",
			TablesUsed: []string{"analytics.events"},
		}

		table := builders.NewViewBuilder("v1", "analytics", sd,
			builders.WithOwner("etl"),
			builders.WithOwnerType(metastore.PrincipalTypeRole),
			builders.WithCreateTime(1700000000),
			builders.WithLastAccessTime(1700000500),
			builders.WithRetention(7),
			builders.WithParameters(map[string]string{"comment": "daily events"}),
			builders.WithViewOriginalText("SELECT * FROM events"),
			builders.WithViewExpandedText("SELECT `events`.`id` FROM `analytics`.`events`"),
			builders.WithPrivileges(privileges),
			builders.WithTemporary(true),
			builders.WithRewriteEnabled(false),
			builders.WithCreationMetadata(creationMetadata),
			builders.WithCatalogName("hive"),
		).Build()

		require.Equal(t, &metastore.Table{
			TableName:        "v1",
			DbName:           "analytics",
			Owner:            lo.ToPtr("etl"),
			CreateTime:       lo.ToPtr[int32](1700000000),
			LastAccessTime:   lo.ToPtr[int32](1700000500),
			Retention:        lo.ToPtr[int32](7),
			Sd:               sd,
			Parameters:       map[string]string{"comment": "daily events"},
			ViewOriginalText: lo.ToPtr("SELECT * FROM events"),
			ViewExpandedText: lo.ToPtr("SELECT `events`.`id` FROM `analytics`.`events`"),
			TableType:        metastore.TableTypeVirtualView,
			Privileges:       privileges,
			Temporary:        true,
			RewriteEnabled:   lo.ToPtr(false),
			CreationMetadata: creationMetadata,
			CatName:          lo.ToPtr("hive"),
			OwnerType:        metastore.PrincipalTypeRole,
		}, table)
		require.Same(t, privileges, table.Privileges)
		require.Same(t, creationMetadata, table.CreationMetadata)
	})

	t.Run("table type cannot be overridden", func(t *testing.T) {
		b := builders.NewViewBuilder("v1", "analytics", testStorageDescriptor(),
			builders.WithParameters(map[string]string{"table_type": metastore.TableTypeManaged}),
			builders.WithTemporary(true),
		)
		require.Equal(t, metastore.TableTypeVirtualView, b.TableType())
		require.Equal(t, metastore.TableTypeVirtualView, b.Build().TableType)
	})

	t.Run("build is idempotent", func(t *testing.T) {
		b := builders.NewViewBuilder("v1", "analytics", testStorageDescriptor(),
			builders.WithOwner("etl"),
			builders.WithParameters(map[string]string{"k": "v"}),
		)

		first, second := b.Build(), b.Build()
		require.Equal(t, first, second)
		require.NotSame(t, first, second)

		ctx := context.Background()
		firstBytes, err := metastore.Marshal(ctx, first, metastore.ProtocolBinary)
		require.NoError(t, err)
		secondBytes, err := metastore.Marshal(ctx, second, metastore.ProtocolBinary)
		require.NoError(t, err)
		require.Equal(t, firstBytes, secondBytes)
	})

	t.Run("built records do not share mutable state with the builder", func(t *testing.T) {
		params := map[string]string{"k": "v"}
		b := builders.NewViewBuilder("v1", "analytics", nil,
			builders.WithOwner("etl"),
			builders.WithParameters(params),
		)
		params["k"] = "changed by caller"

		first := b.Build()
		first.Parameters["extra"] = "x"
		*first.Owner = "someone else"

		second := b.Build()
		require.Equal(t, map[string]string{"k": "v"}, second.Parameters)
		require.Equal(t, "etl", *second.Owner)
	})

	t.Run("accessors", func(t *testing.T) {
		b := builders.NewViewBuilder("v1", "analytics", nil)
		require.Equal(t, "v1", b.ViewName())
		require.Equal(t, "analytics", b.DBName())
	})

	t.Run("round trips through the wire codec", func(t *testing.T) {
		ctx := context.Background()
		table := builders.NewViewBuilder("v1", "analytics", testStorageDescriptor(),
			builders.WithViewOriginalText("SELECT 1"),
		).Build()

		data, err := metastore.Marshal(ctx, table, metastore.ProtocolCompact)
		require.NoError(t, err)

		decoded := metastore.NewTable()
		require.NoError(t, metastore.Unmarshal(ctx, data, decoded, metastore.ProtocolCompact))
		require.Equal(t, table, decoded)
	})
}

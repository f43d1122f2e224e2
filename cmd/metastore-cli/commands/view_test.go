package commands_test

import (
	"bytes"
	"context"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	gluetypes "github.com/aws/aws-sdk-go-v2/service/glue/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
	"go.uber.org/mock/gomock"

	"github.com/rudderlabs/rudder-go-kit/config"
	"github.com/rudderlabs/rudder-go-kit/logger"
	"github.com/rudderlabs/rudder-go-kit/stats"

	"github.com/rudderlabs/metastore-builders/archive"
	"github.com/rudderlabs/metastore-builders/builders"
	"github.com/rudderlabs/metastore-builders/catalog"
	"github.com/rudderlabs/metastore-builders/cmd/metastore-cli/commands"
	"github.com/rudderlabs/metastore-builders/jsonrs"
	"github.com/rudderlabs/metastore-builders/metastore"
	mock_catalog "github.com/rudderlabs/metastore-builders/mocks/catalog"
)

type memoryS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(params.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[aws.ToString(params.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *memoryS3) GetObject(_ context.Context, params *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[aws.ToString(params.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func newEnv(t *testing.T) (*commands.Env, *mock_catalog.MockGlueAPI) {
	t.Helper()

	conf := config.New()
	conf.Set("Metastore.archive.bucket", "views")
	conf.Set("Metastore.glue.retryInitialInterval", "1ms")

	api := mock_catalog.NewMockGlueAPI(gomock.NewController(t))
	s3API := &memoryS3{objects: make(map[string][]byte)}

	return &commands.Env{
		Conf:       conf,
		Log:        logger.NOP,
		Stats:      stats.NOP,
		NewGlueAPI: func(context.Context) (catalog.GlueAPI, error) { return api, nil },
		NewS3API:   func(context.Context) (archive.S3API, error) { return s3API, nil },
	}, api
}

func run(t *testing.T, env *commands.Env, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	app := &cli.App{
		Name:                      "metastore-cli",
		Commands:                  []*cli.Command{commands.View(env)},
		Writer:                    &out,
		ErrWriter:                 io.Discard,
		DisableSliceFlagSeparator: true,
		ExitErrHandler:            func(*cli.Context, error) {},
	}
	err := app.Run(append([]string{"metastore-cli", "view"}, args...))
	return out.String(), err
}

var viewArgs = []string{
	"--db", "analytics",
	"--name", "active_users",
	"--owner", "etl",
	"--create-time", "1700000000",
	"--original-text", "SELECT id, email FROM users",
	"--expanded-text", "SELECT `users`.`id`, `users`.`email` FROM `analytics`.`users`",
	"--column", "id:bigint",
	"--column", "email:string:contact, if any",
	"--location", "s3://warehouse/analytics/users/",
	"--param", "comment=active users",
}

func expectedView() *metastore.Table {
	sd := builders.ParquetStorageDescriptor([]*metastore.FieldSchema{
		{Name: "id", Type: "bigint"},
		{Name: "email", Type: "string", Comment: "contact, if any"},
	}, "s3://warehouse/analytics/users/")

	return builders.NewViewBuilder("active_users", "analytics", sd,
		builders.WithOwner("etl"),
		builders.WithCreateTime(1700000000),
		builders.WithViewOriginalText("SELECT id, email FROM users"),
		builders.WithViewExpandedText("SELECT `users`.`id`, `users`.`email` FROM `analytics`.`users`"),
		builders.WithParameters(map[string]string{"comment": "active users"}),
	).Build()
}

func TestBuild(t *testing.T) {
	env, _ := newEnv(t)

	t.Run("all flags", func(t *testing.T) {
		out, err := run(t, env, append([]string{"build"}, viewArgs...)...)
		require.NoError(t, err)

		var table metastore.Table
		require.NoError(t, jsonrs.Unmarshal([]byte(out), &table))
		require.Equal(t, expectedView(), &table)
	})

	t.Run("owner type and catalog", func(t *testing.T) {
		out, err := run(t, env, "build", "--db", "analytics", "--name", "v", "--owner-type", "role", "--catalog", "spark", "--parquet=false")
		require.NoError(t, err)

		var table metastore.Table
		require.NoError(t, jsonrs.Unmarshal([]byte(out), &table))
		require.Equal(t, metastore.PrincipalTypeRole, table.OwnerType)
		require.Equal(t, "spark", aws.ToString(table.CatName))
		require.Equal(t, metastore.TableTypeVirtualView, table.TableType)
		require.Empty(t, table.Sd.InputFormat)
		require.Nil(t, table.Sd.SerdeInfo)
	})

	t.Run("invalid column", func(t *testing.T) {
		_, err := run(t, env, "build", "--db", "analytics", "--name", "v", "--column", "id")
		require.ErrorContains(t, err, `invalid column "id"`)
	})

	t.Run("invalid parameter", func(t *testing.T) {
		_, err := run(t, env, "build", "--db", "analytics", "--name", "v", "--param", "comment")
		require.ErrorContains(t, err, `invalid parameter "comment"`)
	})

	t.Run("invalid owner type", func(t *testing.T) {
		_, err := run(t, env, "build", "--db", "analytics", "--name", "v", "--owner-type", "service")
		require.ErrorContains(t, err, "invalid principal type")
	})

	t.Run("complex column types", func(t *testing.T) {
		out, err := run(t, env, "build", "--db", "analytics", "--name", "v",
			"--column", "s:struct<a:int,b:string>:nested fields",
			"--column", "m:map<string,struct<b:int>>",
			"--column", "tags:array<string>:labels: free form",
		)
		require.NoError(t, err)

		var table metastore.Table
		require.NoError(t, jsonrs.Unmarshal([]byte(out), &table))
		require.Equal(t, []*metastore.FieldSchema{
			{Name: "s", Type: "struct<a:int,b:string>", Comment: "nested fields"},
			{Name: "m", Type: "map<string,struct<b:int>>"},
			{Name: "tags", Type: "array<string>", Comment: "labels: free form"},
		}, table.Sd.Cols)
	})

	t.Run("unbalanced column type", func(t *testing.T) {
		for _, column := range []string{"s:struct<a:int", "s:int>:x", "s::comment"} {
			_, err := run(t, env, "build", "--db", "analytics", "--name", "v", "--column", column)
			require.ErrorContains(t, err, "invalid column", column)
		}
	})

	t.Run("time flags", func(t *testing.T) {
		testCases := []struct {
			name    string
			args    []string
			wantErr string
		}{
			{name: "create time overflow", args: []string{"--create-time", "4294967297"}, wantErr: "invalid create-time 4294967297: out of range"},
			{name: "last access time overflow", args: []string{"--last-access-time", "2147483648"}, wantErr: "invalid last-access-time 2147483648: out of range"},
			{name: "retention underflow", args: []string{"--retention", "-2147483649"}, wantErr: "invalid retention -2147483649: out of range"},
			{name: "bounds", args: []string{"--create-time", "2147483647", "--retention", "-2147483648"}},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				out, err := run(t, env, append([]string{"build", "--db", "analytics", "--name", "v"}, tc.args...)...)
				if tc.wantErr != "" {
					require.EqualError(t, err, tc.wantErr)
					return
				}
				require.NoError(t, err)

				var table metastore.Table
				require.NoError(t, jsonrs.Unmarshal([]byte(out), &table))
				require.Equal(t, int32(math.MaxInt32), aws.ToInt32(table.CreateTime))
				require.Equal(t, int32(math.MinInt32), aws.ToInt32(table.Retention))
			})
		}
	})

	t.Run("missing name", func(t *testing.T) {
		_, err := run(t, env, "build", "--db", "analytics")
		require.Error(t, err)
	})
}

func TestEncode(t *testing.T) {
	env, _ := newEnv(t)
	ctx := context.Background()

	for _, protocol := range []metastore.Protocol{metastore.ProtocolBinary, metastore.ProtocolCompact, metastore.ProtocolJSON} {
		t.Run(string(protocol), func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "view.thrift")

			_, err := run(t, env, append([]string{"encode", "--protocol", string(protocol), "--out", out}, viewArgs...)...)
			require.NoError(t, err)

			data, err := os.ReadFile(out)
			require.NoError(t, err)

			table := metastore.NewTable()
			require.NoError(t, metastore.Unmarshal(ctx, data, table, protocol))
			require.Equal(t, expectedView(), table)
		})
	}

	t.Run("unknown protocol", func(t *testing.T) {
		_, err := run(t, env, append([]string{"encode", "--protocol", "avro"}, viewArgs...)...)
		require.ErrorIs(t, err, metastore.ErrUnknownProtocol)
	})
}

func TestCreate(t *testing.T) {
	env, api := newEnv(t)

	gomock.InOrder(
		api.EXPECT().CreateDatabase(gomock.Any(), gomock.Any()).
			Return(nil, &gluetypes.AlreadyExistsException{Message: aws.String("exists")}),
		api.EXPECT().CreateTable(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, input *glue.CreateTableInput, _ ...func(*glue.Options)) (*glue.CreateTableOutput, error) {
				require.Equal(t, "analytics", aws.ToString(input.DatabaseName))
				require.Equal(t, "active_users", aws.ToString(input.TableInput.Name))
				require.Equal(t, metastore.TableTypeVirtualView, aws.ToString(input.TableInput.TableType))
				return &glue.CreateTableOutput{}, nil
			}),
	)

	out, err := run(t, env, append([]string{"create", "--create-database"}, viewArgs...)...)
	require.NoError(t, err)
	require.Equal(t, "created view analytics.active_users\n", out)
}

func TestDescribe(t *testing.T) {
	env, api := newEnv(t)

	api.EXPECT().GetTable(gomock.Any(), gomock.Any()).Return(&glue.GetTableOutput{
		Table: &gluetypes.Table{
			Name:             aws.String("active_users"),
			DatabaseName:     aws.String("analytics"),
			Owner:            aws.String("etl"),
			TableType:        aws.String(metastore.TableTypeVirtualView),
			ViewOriginalText: aws.String("SELECT id FROM users"),
			Parameters:       map[string]string{"comment": "active users"},
			StorageDescriptor: &gluetypes.StorageDescriptor{
				Columns: []gluetypes.Column{{Name: aws.String("id"), Type: aws.String("bigint")}},
			},
		},
	}, nil)

	out, err := run(t, env, "describe", "--db", "analytics", "--name", "active_users")
	require.NoError(t, err)
	require.Contains(t, out, "active_users")
	require.Contains(t, out, "SELECT id FROM users")
	require.Contains(t, out, "id bigint")
	require.Contains(t, out, "comment=active users")
	require.Contains(t, out, "USER")

	t.Run("named catalog", func(t *testing.T) {
		env, api := newEnv(t)
		env.Conf.Set("Metastore.glue.catalogID", "123456789012")
		env.Conf.Set("Metastore.glue.catalogs.spark", "210987654321")

		for catalogName, catalogID := range map[string]string{
			"hive":  "123456789012",
			"spark": "210987654321",
		} {
			api.EXPECT().GetTable(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, input *glue.GetTableInput, _ ...func(*glue.Options)) (*glue.GetTableOutput, error) {
					require.Equal(t, catalogID, aws.ToString(input.CatalogId))
					return &glue.GetTableOutput{Table: &gluetypes.Table{
						Name:      aws.String("active_users"),
						TableType: aws.String(metastore.TableTypeVirtualView),
					}}, nil
				})

			out, err := run(t, env, "describe", "--catalog", catalogName, "--db", "analytics", "--name", "active_users")
			require.NoError(t, err)
			require.Contains(t, out, catalogName)
		}
	})

	t.Run("not found", func(t *testing.T) {
		env, api := newEnv(t)
		api.EXPECT().GetTable(gomock.Any(), gomock.Any()).
			Return(nil, &gluetypes.EntityNotFoundException{Message: aws.String("missing")})

		_, err := run(t, env, "describe", "--db", "analytics", "--name", "missing")
		require.ErrorIs(t, err, catalog.ErrViewNotFound)
	})
}

func TestList(t *testing.T) {
	env, api := newEnv(t)

	api.EXPECT().GetTables(gomock.Any(), gomock.Any()).Return(&glue.GetTablesOutput{
		TableList: []gluetypes.Table{
			{Name: aws.String("users"), TableType: aws.String(metastore.TableTypeExternal)},
			{Name: aws.String("active_users"), Owner: aws.String("etl"), TableType: aws.String(metastore.TableTypeVirtualView)},
		},
	}, nil)

	out, err := run(t, env, "list", "--db", "analytics")
	require.NoError(t, err)
	require.Contains(t, out, "active_users")
	require.Contains(t, out, "etl")
	require.NotContains(t, out, "| users")
}

func TestDrop(t *testing.T) {
	env, api := newEnv(t)

	gomock.InOrder(
		api.EXPECT().GetTable(gomock.Any(), gomock.Any()).Return(&glue.GetTableOutput{
			Table: &gluetypes.Table{
				Name:      aws.String("active_users"),
				TableType: aws.String(metastore.TableTypeVirtualView),
			},
		}, nil),
		api.EXPECT().DeleteTable(gomock.Any(), gomock.Any()).Return(&glue.DeleteTableOutput{}, nil),
	)

	out, err := run(t, env, "drop", "--db", "analytics", "--name", "active_users")
	require.NoError(t, err)
	require.Equal(t, "dropped view analytics.active_users\n", out)
}

func TestArchiveAndFetch(t *testing.T) {
	env, _ := newEnv(t)

	out, err := run(t, env, append([]string{"archive"}, viewArgs...)...)
	require.NoError(t, err)
	require.Equal(t, "s3://views/hive/analytics/active_users.compact\n", out)

	out, err = run(t, env, "fetch", "--db", "analytics", "--name", "active_users")
	require.NoError(t, err)

	var table metastore.Table
	require.NoError(t, jsonrs.Unmarshal([]byte(out), &table))
	require.Equal(t, expectedView(), &table)

	t.Run("missing", func(t *testing.T) {
		_, err := run(t, env, "fetch", "--db", "analytics", "--name", "missing")
		var noSuchKey *s3types.NoSuchKey
		require.ErrorAs(t, err, &noSuchKey)
	})
}

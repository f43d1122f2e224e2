package commands

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/rudderlabs/metastore-builders/builders"
	"github.com/rudderlabs/metastore-builders/jsonrs"
	"github.com/rudderlabs/metastore-builders/metastore"
)

var DefaultList []*cli.Command

func init() {
	DefaultList = append(DefaultList, View(DefaultEnv()))
}

func identityFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "db", Usage: "database name", Required: true},
		&cli.StringFlag{Name: "name", Usage: "view name", Required: true},
	}
}

func catalogFlag() cli.Flag {
	return &cli.StringFlag{Name: "catalog", Usage: "catalog name"}
}

// buildFlags exposes every view builder option.
func buildFlags() []cli.Flag {
	return append([]cli.Flag{
		catalogFlag(),
		&cli.StringFlag{Name: "owner", Usage: "owner principal"},
		&cli.StringFlag{Name: "owner-type", Usage: "owner principal type: user, role or group", Value: "user"},
		&cli.Int64Flag{Name: "create-time", Usage: "creation time in unix seconds"},
		&cli.Int64Flag{Name: "last-access-time", Usage: "last access time in unix seconds"},
		&cli.Int64Flag{Name: "retention", Usage: "retention period"},
		&cli.StringFlag{Name: "original-text", Usage: "view definition as written"},
		&cli.StringFlag{Name: "expanded-text", Usage: "view definition with fully qualified references"},
		&cli.BoolFlag{Name: "temporary", Usage: "session scoped view"},
		&cli.BoolFlag{Name: "rewrite-enabled", Usage: "allow query rewriting"},
		&cli.StringSliceFlag{Name: "param", Usage: "view parameter as key=value"},
		&cli.StringSliceFlag{Name: "column", Usage: "column as name:type[:comment]"},
		&cli.StringFlag{Name: "location", Usage: "storage location"},
		&cli.BoolFlag{Name: "parquet", Usage: "use the parquet storage format", Value: true},
	}, identityFlags()...)
}

func View(env *Env) *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "build and manage virtual views",
		Subcommands: []*cli.Command{
			{
				Name:   "build",
				Usage:  "print a view record as JSON",
				Flags:  buildFlags(),
				Action: Build,
			},
			{
				Name:  "encode",
				Usage: "write the thrift encoding of a view record",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "protocol", Usage: "binary, compact or json", Value: string(metastore.ProtocolBinary)},
					&cli.StringFlag{Name: "out", Usage: "output file, - for stdout", Value: "-"},
				}, buildFlags()...),
				Action: Encode,
			},
			{
				Name:  "create",
				Usage: "publish a view to the glue catalog",
				Flags: append([]cli.Flag{
					&cli.BoolFlag{Name: "create-database", Usage: "create the database when missing"},
				}, buildFlags()...),
				Action: env.Create,
			},
			{
				Name:   "describe",
				Usage:  "show a view from the glue catalog",
				Flags:  append([]cli.Flag{catalogFlag()}, identityFlags()...),
				Action: env.Describe,
			},
			{
				Name:  "list",
				Usage: "list the views of a database",
				Flags: []cli.Flag{
					catalogFlag(),
					&cli.StringFlag{Name: "db", Usage: "database name", Required: true},
				},
				Action: env.List,
			},
			{
				Name:   "drop",
				Usage:  "drop a view from the glue catalog",
				Flags:  append([]cli.Flag{catalogFlag()}, identityFlags()...),
				Action: env.Drop,
			},
			{
				Name:   "archive",
				Usage:  "upload a view record to the s3 archive",
				Flags:  buildFlags(),
				Action: env.Archive,
			},
			{
				Name:  "fetch",
				Usage: "print an archived view record as JSON",
				Flags:  append([]cli.Flag{catalogFlag()}, identityFlags()...),
				Action: env.Fetch,
			},
		},
	}
}

func Build(c *cli.Context) error {
	table, err := buildView(c)
	if err != nil {
		return err
	}
	return printJSON(c, table)
}

func Encode(c *cli.Context) error {
	protocol, err := metastore.ParseProtocol(c.String("protocol"))
	if err != nil {
		return err
	}
	table, err := buildView(c)
	if err != nil {
		return err
	}

	data, err := metastore.Marshal(c.Context, table, protocol)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "-" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", out, err)
		}
		_, err = fmt.Fprintf(c.App.Writer, "wrote %d bytes to %s\n", len(data), out)
		return err
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func (e *Env) Create(c *cli.Context) error {
	table, err := buildView(c)
	if err != nil {
		return err
	}
	repo, err := e.repository(c.Context)
	if err != nil {
		return err
	}

	if c.Bool("create-database") {
		if err := repo.CreateDatabase(c.Context, table.DbName); err != nil {
			return err
		}
	}
	if err := repo.CreateView(c.Context, table); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "created view %s\n", table.QualifiedName())
	return err
}

func (e *Env) Describe(c *cli.Context) error {
	repo, err := e.repository(c.Context)
	if err != nil {
		return err
	}
	table, err := repo.GetView(c.Context, c.String("catalog"), c.String("db"), c.String("name"))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, describeTable(table))
	return err
}

func (e *Env) List(c *cli.Context) error {
	repo, err := e.repository(c.Context)
	if err != nil {
		return err
	}
	views, err := repo.ListViews(c.Context, c.String("catalog"), c.String("db"))
	if err != nil {
		return err
	}
	renderViews(c.App.Writer, views)
	return nil
}

func (e *Env) Drop(c *cli.Context) error {
	repo, err := e.repository(c.Context)
	if err != nil {
		return err
	}
	if err := repo.DropView(c.Context, c.String("catalog"), c.String("db"), c.String("name")); err != nil {
		return err
	}
	_, err = fmt.Fprintf(c.App.Writer, "dropped view %s.%s\n", c.String("db"), c.String("name"))
	return err
}

func (e *Env) Archive(c *cli.Context) error {
	table, err := buildView(c)
	if err != nil {
		return err
	}
	archiver, err := e.archiver(c.Context)
	if err != nil {
		return err
	}
	location, err := archiver.Upload(c.Context, table)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, location)
	return err
}

func (e *Env) Fetch(c *cli.Context) error {
	archiver, err := e.archiver(c.Context)
	if err != nil {
		return err
	}
	table, err := archiver.Download(c.Context, c.String("catalog"), c.String("db"), c.String("name"))
	if err != nil {
		return err
	}
	return printJSON(c, table)
}

func buildView(c *cli.Context) (*metastore.Table, error) {
	ownerType, err := metastore.ParsePrincipalType(c.String("owner-type"))
	if err != nil {
		return nil, err
	}
	params, err := parseParams(c.StringSlice("param"))
	if err != nil {
		return nil, err
	}
	columns, err := parseColumns(c.StringSlice("column"))
	if err != nil {
		return nil, err
	}

	opts := []builders.ViewOption{
		builders.WithOwnerType(ownerType),
		builders.WithParameters(params),
		builders.WithTemporary(c.Bool("temporary")),
	}
	if c.IsSet("catalog") {
		opts = append(opts, builders.WithCatalogName(c.String("catalog")))
	}
	if c.IsSet("owner") {
		opts = append(opts, builders.WithOwner(c.String("owner")))
	}
	for _, f := range []struct {
		name   string
		option func(int32) builders.ViewOption
	}{
		{"create-time", builders.WithCreateTime},
		{"last-access-time", builders.WithLastAccessTime},
		{"retention", builders.WithRetention},
	} {
		if !c.IsSet(f.name) {
			continue
		}
		v, err := int32Flag(c, f.name)
		if err != nil {
			return nil, err
		}
		opts = append(opts, f.option(v))
	}
	if c.IsSet("original-text") {
		opts = append(opts, builders.WithViewOriginalText(c.String("original-text")))
	}
	if c.IsSet("expanded-text") {
		opts = append(opts, builders.WithViewExpandedText(c.String("expanded-text")))
	}
	if c.IsSet("rewrite-enabled") {
		opts = append(opts, builders.WithRewriteEnabled(c.Bool("rewrite-enabled")))
	}

	var sd *metastore.StorageDescriptor
	if c.Bool("parquet") {
		sd = builders.ParquetStorageDescriptor(columns, c.String("location"))
	} else {
		sd = builders.NewStorageDescriptorBuilder(columns, c.String("location")).Build()
	}
	return builders.NewViewBuilder(c.String("name"), c.String("db"), sd, opts...).Build(), nil
}

func parseParams(values []string) (map[string]string, error) {
	params := make(map[string]string, len(values))
	for _, v := range values {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value", v)
		}
		params[key] = value
	}
	return params, nil
}

// int32Flag reads an integer flag that the metastore stores as i32.
func int32Flag(c *cli.Context, name string) (int32, error) {
	v := c.Int64(name)
	if v < math.MinInt32 || v > math.MaxInt32 {
		return 0, fmt.Errorf("invalid %s %d: out of range", name, v)
	}
	return int32(v), nil
}

// parseColumns reads name:type[:comment]. Colons nested in complex types such
// as struct<a:int> or map<string,struct<b:int>> belong to the type.
func parseColumns(values []string) ([]*metastore.FieldSchema, error) {
	columns := make([]*metastore.FieldSchema, 0, len(values))
	for _, v := range values {
		name, rest, ok := strings.Cut(v, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid column %q: expected name:type[:comment]", v)
		}
		typ, comment, hasComment, err := splitColumnType(rest)
		if err != nil || typ == "" {
			return nil, fmt.Errorf("invalid column %q: expected name:type[:comment]", v)
		}
		var opts []builders.ColumnOption
		if hasComment {
			opts = append(opts, builders.WithComment(comment))
		}
		columns = append(columns, builders.NewColumnBuilder(name, typ, opts...).Build())
	}
	return columns, nil
}

// splitColumnType splits s at the first colon outside angle brackets.
func splitColumnType(s string) (typ, comment string, hasComment bool, err error) {
	depth := 0
	for i, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			depth--
			if depth < 0 {
				return "", "", false, fmt.Errorf("unbalanced type %q", s)
			}
		case ':':
			if depth == 0 {
				return s[:i], s[i+1:], true, nil
			}
		}
	}
	if depth != 0 {
		return "", "", false, fmt.Errorf("unbalanced type %q", s)
	}
	return s, "", false, nil
}

func printJSON(c *cli.Context, v any) error {
	enc := jsonrs.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package metastore

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/samber/lo"
)

func (f *FieldSchema) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "FieldSchema", func() error {
		if err := writeString(ctx, p, "name", 1, f.Name); err != nil {
			return err
		}
		if err := writeString(ctx, p, "type", 2, f.Type); err != nil {
			return err
		}
		return writeString(ctx, p, "comment", 3, f.Comment)
	})
}

func (f *FieldSchema) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "FieldSchema", func(id int16, typ thrift.TType) (ok bool, err error) {
		if typ != thrift.STRING {
			return false, nil
		}
		switch id {
		case 1:
			f.Name, err = p.ReadString(ctx)
		case 2:
			f.Type, err = p.ReadString(ctx)
		case 3:
			f.Comment, err = p.ReadString(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (s *SerDeInfo) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "SerDeInfo", func() error {
		if err := writeString(ctx, p, "name", 1, s.Name); err != nil {
			return err
		}
		if err := writeString(ctx, p, "serializationLib", 2, s.SerializationLib); err != nil {
			return err
		}
		return writeField(ctx, p, "parameters", thrift.MAP, 3, func() error {
			return writeStringMap(ctx, p, s.Parameters)
		})
	})
}

func (s *SerDeInfo) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "SerDeInfo", func(id int16, typ thrift.TType) (ok bool, err error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			s.Name, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			s.SerializationLib, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.MAP:
			s.Parameters, err = readStringMap(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (o *Order) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "Order", func() error {
		if err := writeString(ctx, p, "col", 1, o.Col); err != nil {
			return err
		}
		return writeI32(ctx, p, "order", 2, o.Order)
	})
}

func (o *Order) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "Order", func(id int16, typ thrift.TType) (ok bool, err error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			o.Col, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.I32:
			o.Order, err = p.ReadI32(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func (sd *StorageDescriptor) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "StorageDescriptor", func() error {
		if err := writeField(ctx, p, "cols", thrift.LIST, 1, func() error {
			return writeStructList(ctx, p, sd.Cols)
		}); err != nil {
			return err
		}
		if err := writeString(ctx, p, "location", 2, sd.Location); err != nil {
			return err
		}
		if err := writeString(ctx, p, "inputFormat", 3, sd.InputFormat); err != nil {
			return err
		}
		if err := writeString(ctx, p, "outputFormat", 4, sd.OutputFormat); err != nil {
			return err
		}
		if err := writeBool(ctx, p, "compressed", 5, sd.Compressed); err != nil {
			return err
		}
		if err := writeI32(ctx, p, "numBuckets", 6, sd.NumBuckets); err != nil {
			return err
		}
		if sd.SerdeInfo != nil {
			if err := writeField(ctx, p, "serdeInfo", thrift.STRUCT, 7, func() error {
				return sd.SerdeInfo.Write(ctx, p)
			}); err != nil {
				return err
			}
		}
		if err := writeField(ctx, p, "bucketCols", thrift.LIST, 8, func() error {
			return writeStringList(ctx, p, sd.BucketCols)
		}); err != nil {
			return err
		}
		if err := writeField(ctx, p, "sortCols", thrift.LIST, 9, func() error {
			return writeStructList(ctx, p, sd.SortCols)
		}); err != nil {
			return err
		}
		if err := writeField(ctx, p, "parameters", thrift.MAP, 10, func() error {
			return writeStringMap(ctx, p, sd.Parameters)
		}); err != nil {
			return err
		}
		return writeOptBool(ctx, p, "storedAsSubDirectories", 12, sd.StoredAsSubDirectories)
	})
}

func (sd *StorageDescriptor) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "StorageDescriptor", func(id int16, typ thrift.TType) (ok bool, err error) {
		switch {
		case id == 1 && typ == thrift.LIST:
			sd.Cols, err = readStructList[FieldSchema](ctx, p)
		case id == 2 && typ == thrift.STRING:
			sd.Location, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			sd.InputFormat, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.STRING:
			sd.OutputFormat, err = p.ReadString(ctx)
		case id == 5 && typ == thrift.BOOL:
			sd.Compressed, err = p.ReadBool(ctx)
		case id == 6 && typ == thrift.I32:
			sd.NumBuckets, err = p.ReadI32(ctx)
		case id == 7 && typ == thrift.STRUCT:
			sd.SerdeInfo = &SerDeInfo{}
			err = sd.SerdeInfo.Read(ctx, p)
		case id == 8 && typ == thrift.LIST:
			sd.BucketCols, err = readStringList(ctx, p)
		case id == 9 && typ == thrift.LIST:
			sd.SortCols, err = readStructList[Order](ctx, p)
		case id == 10 && typ == thrift.MAP:
			sd.Parameters, err = readStringMap(ctx, p)
		case id == 12 && typ == thrift.BOOL:
			sd.StoredAsSubDirectories, err = readBoolPtr(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (g *PrivilegeGrantInfo) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "PrivilegeGrantInfo", func() error {
		if err := writeString(ctx, p, "privilege", 1, g.Privilege); err != nil {
			return err
		}
		if err := writeI32(ctx, p, "createTime", 2, g.CreateTime); err != nil {
			return err
		}
		if err := writeString(ctx, p, "grantor", 3, g.Grantor); err != nil {
			return err
		}
		if err := writeI32(ctx, p, "grantorType", 4, int32(g.GrantorType)); err != nil {
			return err
		}
		return writeBool(ctx, p, "grantOption", 5, g.GrantOption)
	})
}

func (g *PrivilegeGrantInfo) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "PrivilegeGrantInfo", func(id int16, typ thrift.TType) (ok bool, err error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			g.Privilege, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.I32:
			g.CreateTime, err = p.ReadI32(ctx)
		case id == 3 && typ == thrift.STRING:
			g.Grantor, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.I32:
			var v int32
			v, err = p.ReadI32(ctx)
			g.GrantorType = PrincipalType(v)
		case id == 5 && typ == thrift.BOOL:
			g.GrantOption, err = p.ReadBool(ctx)
		default:
			return false, nil
		}
		return true, err
	})
}

func writePrivilegeMap(ctx context.Context, p thrift.TProtocol, m map[string][]*PrivilegeGrantInfo) error {
	if err := p.WriteMapBegin(ctx, thrift.STRING, thrift.LIST, len(m)); err != nil {
		return thrift.PrependError("error writing map begin: ", err)
	}
	keys := lo.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		if err := p.WriteString(ctx, k); err != nil {
			return err
		}
		if err := writeStructList(ctx, p, m[k]); err != nil {
			return err
		}
	}
	if err := p.WriteMapEnd(ctx); err != nil {
		return thrift.PrependError("error writing map end: ", err)
	}
	return nil
}

func readPrivilegeMap(ctx context.Context, p thrift.TProtocol) (map[string][]*PrivilegeGrantInfo, error) {
	_, _, size, err := p.ReadMapBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading map begin: ", err)
	}
	m := make(map[string][]*PrivilegeGrantInfo, size)
	for i := 0; i < size; i++ {
		k, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		grants, err := readStructList[PrivilegeGrantInfo](ctx, p)
		if err != nil {
			return nil, err
		}
		m[k] = grants
	}
	if err := p.ReadMapEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading map end: ", err)
	}
	return m, nil
}

func (s *PrincipalPrivilegeSet) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "PrincipalPrivilegeSet", func() error {
		if err := writeField(ctx, p, "userPrivileges", thrift.MAP, 1, func() error {
			return writePrivilegeMap(ctx, p, s.UserPrivileges)
		}); err != nil {
			return err
		}
		if err := writeField(ctx, p, "groupPrivileges", thrift.MAP, 2, func() error {
			return writePrivilegeMap(ctx, p, s.GroupPrivileges)
		}); err != nil {
			return err
		}
		return writeField(ctx, p, "rolePrivileges", thrift.MAP, 3, func() error {
			return writePrivilegeMap(ctx, p, s.RolePrivileges)
		})
	})
}

func (s *PrincipalPrivilegeSet) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "PrincipalPrivilegeSet", func(id int16, typ thrift.TType) (ok bool, err error) {
		if typ != thrift.MAP {
			return false, nil
		}
		switch id {
		case 1:
			s.UserPrivileges, err = readPrivilegeMap(ctx, p)
		case 2:
			s.GroupPrivileges, err = readPrivilegeMap(ctx, p)
		case 3:
			s.RolePrivileges, err = readPrivilegeMap(ctx, p)
		default:
			return false, nil
		}
		return true, err
	})
}

func (c *CreationMetadata) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "CreationMetadata", func() error {
		if err := writeString(ctx, p, "catName", 1, c.CatName); err != nil {
			return err
		}
		if err := writeString(ctx, p, "dbName", 2, c.DbName); err != nil {
			return err
		}
		if err := writeString(ctx, p, "tblName", 3, c.TblName); err != nil {
			return err
		}
		if err := writeField(ctx, p, "tablesUsed", thrift.SET, 4, func() error {
			if err := p.WriteSetBegin(ctx, thrift.STRING, len(c.TablesUsed)); err != nil {
				return err
			}
			for _, t := range c.TablesUsed {
				if err := p.WriteString(ctx, t); err != nil {
					return err
				}
			}
			return p.WriteSetEnd(ctx)
		}); err != nil {
			return err
		}
		if err := writeOptString(ctx, p, "validTxnList", 5, c.ValidTxnList); err != nil {
			return err
		}
		if c.MaterializationTime != nil {
			return writeField(ctx, p, "materializationTime", thrift.I64, 6, func() error {
				return p.WriteI64(ctx, *c.MaterializationTime)
			})
		}
		return nil
	})
}

func (c *CreationMetadata) Read(ctx context.Context, p thrift.TProtocol) error {
	return readStruct(ctx, p, "CreationMetadata", func(id int16, typ thrift.TType) (ok bool, err error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			c.CatName, err = p.ReadString(ctx)
		case id == 2 && typ == thrift.STRING:
			c.DbName, err = p.ReadString(ctx)
		case id == 3 && typ == thrift.STRING:
			c.TblName, err = p.ReadString(ctx)
		case id == 4 && typ == thrift.SET:
			c.TablesUsed, err = readStringSet(ctx, p)
		case id == 5 && typ == thrift.STRING:
			c.ValidTxnList, err = readStringPtr(ctx, p)
		case id == 6 && typ == thrift.I64:
			var v int64
			if v, err = p.ReadI64(ctx); err == nil {
				c.MaterializationTime = &v
			}
		default:
			return false, nil
		}
		return true, err
	})
}

func (t *Table) Write(ctx context.Context, p thrift.TProtocol) error {
	return writeStruct(ctx, p, "Table", func() error {
		if err := writeString(ctx, p, "tableName", 1, t.TableName); err != nil {
			return err
		}
		if err := writeString(ctx, p, "dbName", 2, t.DbName); err != nil {
			return err
		}
		if err := writeOptString(ctx, p, "owner", 3, t.Owner); err != nil {
			return err
		}
		if err := writeOptI32(ctx, p, "createTime", 4, t.CreateTime); err != nil {
			return err
		}
		if err := writeOptI32(ctx, p, "lastAccessTime", 5, t.LastAccessTime); err != nil {
			return err
		}
		if err := writeOptI32(ctx, p, "retention", 6, t.Retention); err != nil {
			return err
		}
		if t.Sd != nil {
			if err := writeField(ctx, p, "sd", thrift.STRUCT, 7, func() error {
				return t.Sd.Write(ctx, p)
			}); err != nil {
				return err
			}
		}
		if t.PartitionKeys != nil {
			if err := writeField(ctx, p, "partitionKeys", thrift.LIST, 8, func() error {
				return writeStructList(ctx, p, t.PartitionKeys)
			}); err != nil {
				return err
			}
		}
		if t.Parameters != nil {
			if err := writeField(ctx, p, "parameters", thrift.MAP, 9, func() error {
				return writeStringMap(ctx, p, t.Parameters)
			}); err != nil {
				return err
			}
		}
		if err := writeOptString(ctx, p, "viewOriginalText", 10, t.ViewOriginalText); err != nil {
			return err
		}
		if err := writeOptString(ctx, p, "viewExpandedText", 11, t.ViewExpandedText); err != nil {
			return err
		}
		if err := writeString(ctx, p, "tableType", 12, t.TableType); err != nil {
			return err
		}
		if t.Privileges != nil {
			if err := writeField(ctx, p, "privileges", thrift.STRUCT, 13, func() error {
				return t.Privileges.Write(ctx, p)
			}); err != nil {
				return err
			}
		}
		if err := writeBool(ctx, p, "temporary", 14, t.Temporary); err != nil {
			return err
		}
		if err := writeOptBool(ctx, p, "rewriteEnabled", 15, t.RewriteEnabled); err != nil {
			return err
		}
		if t.CreationMetadata != nil {
			if err := writeField(ctx, p, "creationMetadata", thrift.STRUCT, 16, func() error {
				return t.CreationMetadata.Write(ctx, p)
			}); err != nil {
				return err
			}
		}
		if err := writeOptString(ctx, p, "catName", 17, t.CatName); err != nil {
			return err
		}
		return writeI32(ctx, p, "ownerType", 18, int32(t.OwnerType))
	})
}

func (t *Table) Read(ctx context.Context, p thrift.TProtocol) error {
	var issetTableName, issetDbName bool
	t.OwnerType = PrincipalTypeUser

	err := readStruct(ctx, p, "Table", func(id int16, typ thrift.TType) (ok bool, err error) {
		switch {
		case id == 1 && typ == thrift.STRING:
			t.TableName, err = p.ReadString(ctx)
			issetTableName = true
		case id == 2 && typ == thrift.STRING:
			t.DbName, err = p.ReadString(ctx)
			issetDbName = true
		case id == 3 && typ == thrift.STRING:
			t.Owner, err = readStringPtr(ctx, p)
		case id == 4 && typ == thrift.I32:
			t.CreateTime, err = readI32Ptr(ctx, p)
		case id == 5 && typ == thrift.I32:
			t.LastAccessTime, err = readI32Ptr(ctx, p)
		case id == 6 && typ == thrift.I32:
			t.Retention, err = readI32Ptr(ctx, p)
		case id == 7 && typ == thrift.STRUCT:
			t.Sd = &StorageDescriptor{}
			err = t.Sd.Read(ctx, p)
		case id == 8 && typ == thrift.LIST:
			t.PartitionKeys, err = readStructList[FieldSchema](ctx, p)
		case id == 9 && typ == thrift.MAP:
			t.Parameters, err = readStringMap(ctx, p)
		case id == 10 && typ == thrift.STRING:
			t.ViewOriginalText, err = readStringPtr(ctx, p)
		case id == 11 && typ == thrift.STRING:
			t.ViewExpandedText, err = readStringPtr(ctx, p)
		case id == 12 && typ == thrift.STRING:
			t.TableType, err = p.ReadString(ctx)
		case id == 13 && typ == thrift.STRUCT:
			t.Privileges = &PrincipalPrivilegeSet{}
			err = t.Privileges.Read(ctx, p)
		case id == 14 && typ == thrift.BOOL:
			t.Temporary, err = p.ReadBool(ctx)
		case id == 15 && typ == thrift.BOOL:
			t.RewriteEnabled, err = readBoolPtr(ctx, p)
		case id == 16 && typ == thrift.STRUCT:
			t.CreationMetadata = &CreationMetadata{}
			err = t.CreationMetadata.Read(ctx, p)
		case id == 17 && typ == thrift.STRING:
			t.CatName, err = readStringPtr(ctx, p)
		case id == 18 && typ == thrift.I32:
			var v int32
			v, err = p.ReadI32(ctx)
			t.OwnerType = PrincipalType(v)
		default:
			return false, nil
		}
		return true, err
	})
	if err != nil {
		return err
	}
	// Stricter than the IDL, where tableName and dbName have default
	// requiredness: a record without them cannot be addressed in any catalog.
	if !issetTableName {
		return thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA, errors.New("required field TableName is not set"))
	}
	if !issetDbName {
		return thrift.NewTProtocolExceptionWithType(thrift.INVALID_DATA, fmt.Errorf("required field DbName is not set for table %q", t.TableName))
	}
	return nil
}

package metastore

import (
	"context"
	"fmt"
	"slices"

	"github.com/apache/thrift/lib/go/thrift"
	"github.com/samber/lo"
)

func writeStruct(ctx context.Context, p thrift.TProtocol, name string, fields func() error) error {
	if err := p.WriteStructBegin(ctx, name); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s write struct begin error: ", name), err)
	}
	if err := fields(); err != nil {
		return err
	}
	if err := p.WriteFieldStop(ctx); err != nil {
		return thrift.PrependError("write field stop error: ", err)
	}
	if err := p.WriteStructEnd(ctx); err != nil {
		return thrift.PrependError("write struct stop error: ", err)
	}
	return nil
}

func writeField(ctx context.Context, p thrift.TProtocol, name string, typ thrift.TType, id int16, value func() error) error {
	if err := p.WriteFieldBegin(ctx, name, typ, id); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field begin error %d:%s: ", id, name), err)
	}
	if err := value(); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s (%d) field write error: ", name, id), err)
	}
	if err := p.WriteFieldEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("write field end error %d:%s: ", id, name), err)
	}
	return nil
}

func writeString(ctx context.Context, p thrift.TProtocol, name string, id int16, v string) error {
	return writeField(ctx, p, name, thrift.STRING, id, func() error { return p.WriteString(ctx, v) })
}

func writeOptString(ctx context.Context, p thrift.TProtocol, name string, id int16, v *string) error {
	if v == nil {
		return nil
	}
	return writeString(ctx, p, name, id, *v)
}

func writeI32(ctx context.Context, p thrift.TProtocol, name string, id int16, v int32) error {
	return writeField(ctx, p, name, thrift.I32, id, func() error { return p.WriteI32(ctx, v) })
}

func writeOptI32(ctx context.Context, p thrift.TProtocol, name string, id int16, v *int32) error {
	if v == nil {
		return nil
	}
	return writeI32(ctx, p, name, id, *v)
}

func writeBool(ctx context.Context, p thrift.TProtocol, name string, id int16, v bool) error {
	return writeField(ctx, p, name, thrift.BOOL, id, func() error { return p.WriteBool(ctx, v) })
}

func writeOptBool(ctx context.Context, p thrift.TProtocol, name string, id int16, v *bool) error {
	if v == nil {
		return nil
	}
	return writeBool(ctx, p, name, id, *v)
}

func writeStringMap(ctx context.Context, p thrift.TProtocol, m map[string]string) error {
	if err := p.WriteMapBegin(ctx, thrift.STRING, thrift.STRING, len(m)); err != nil {
		return thrift.PrependError("error writing map begin: ", err)
	}
	// sorted so that equal records encode to equal bytes
	keys := lo.Keys(m)
	slices.Sort(keys)
	for _, k := range keys {
		if err := p.WriteString(ctx, k); err != nil {
			return err
		}
		if err := p.WriteString(ctx, m[k]); err != nil {
			return err
		}
	}
	if err := p.WriteMapEnd(ctx); err != nil {
		return thrift.PrependError("error writing map end: ", err)
	}
	return nil
}

func writeStringList(ctx context.Context, p thrift.TProtocol, l []string) error {
	if err := p.WriteListBegin(ctx, thrift.STRING, len(l)); err != nil {
		return thrift.PrependError("error writing list begin: ", err)
	}
	for _, v := range l {
		if err := p.WriteString(ctx, v); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return thrift.PrependError("error writing list end: ", err)
	}
	return nil
}

func writeStructList[T any, PT interface {
	*T
	thrift.TStruct
}](ctx context.Context, p thrift.TProtocol, l []PT) error {
	if err := p.WriteListBegin(ctx, thrift.STRUCT, len(l)); err != nil {
		return thrift.PrependError("error writing list begin: ", err)
	}
	for _, v := range l {
		if v == nil {
			v = PT(new(T))
		}
		if err := v.Write(ctx, p); err != nil {
			return err
		}
	}
	if err := p.WriteListEnd(ctx); err != nil {
		return thrift.PrependError("error writing list end: ", err)
	}
	return nil
}

// readStruct drives the field loop of a struct. field reports whether it
// consumed the value; unconsumed values are skipped.
func readStruct(ctx context.Context, p thrift.TProtocol, name string, field func(id int16, typ thrift.TType) (bool, error)) error {
	if _, err := p.ReadStructBegin(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s read error: ", name), err)
	}
	for {
		_, typ, id, err := p.ReadFieldBegin(ctx)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%s field %d read error: ", name, id), err)
		}
		if typ == thrift.STOP {
			break
		}
		handled, err := field(id, typ)
		if err != nil {
			return thrift.PrependError(fmt.Sprintf("%s field %d read error: ", name, id), err)
		}
		if !handled {
			if err := p.Skip(ctx, typ); err != nil {
				return err
			}
		}
		if err := p.ReadFieldEnd(ctx); err != nil {
			return err
		}
	}
	if err := p.ReadStructEnd(ctx); err != nil {
		return thrift.PrependError(fmt.Sprintf("%s read struct end error: ", name), err)
	}
	return nil
}

func readStringPtr(ctx context.Context, p thrift.TProtocol) (*string, error) {
	v, err := p.ReadString(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readI32Ptr(ctx context.Context, p thrift.TProtocol) (*int32, error) {
	v, err := p.ReadI32(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readBoolPtr(ctx context.Context, p thrift.TProtocol) (*bool, error) {
	v, err := p.ReadBool(ctx)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func readStringMap(ctx context.Context, p thrift.TProtocol) (map[string]string, error) {
	_, _, size, err := p.ReadMapBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading map begin: ", err)
	}
	m := make(map[string]string, size)
	for i := 0; i < size; i++ {
		k, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		v, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		m[k] = v
	}
	if err := p.ReadMapEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading map end: ", err)
	}
	return m, nil
}

func readStringList(ctx context.Context, p thrift.TProtocol) ([]string, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading list begin: ", err)
	}
	l := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	if err := p.ReadListEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading list end: ", err)
	}
	return l, nil
}

func readStringSet(ctx context.Context, p thrift.TProtocol) ([]string, error) {
	_, size, err := p.ReadSetBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading set begin: ", err)
	}
	l := make([]string, 0, size)
	for i := 0; i < size; i++ {
		v, err := p.ReadString(ctx)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	if err := p.ReadSetEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading set end: ", err)
	}
	return l, nil
}

func readStructList[T any, PT interface {
	*T
	thrift.TStruct
}](ctx context.Context, p thrift.TProtocol) ([]PT, error) {
	_, size, err := p.ReadListBegin(ctx)
	if err != nil {
		return nil, thrift.PrependError("error reading list begin: ", err)
	}
	l := make([]PT, 0, size)
	for i := 0; i < size; i++ {
		v := PT(new(T))
		if err := v.Read(ctx, p); err != nil {
			return nil, err
		}
		l = append(l, v)
	}
	if err := p.ReadListEnd(ctx); err != nil {
		return nil, thrift.PrependError("error reading list end: ", err)
	}
	return l, nil
}

package metastore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/apache/thrift/lib/go/thrift"
)

// Protocol names a thrift wire protocol.
type Protocol string

const (
	ProtocolBinary  Protocol = "binary"
	ProtocolCompact Protocol = "compact"
	ProtocolJSON    Protocol = "json"
)

var ErrUnknownProtocol = errors.New("unknown thrift protocol")

// ParseProtocol resolves a protocol name, ignoring case. An empty name is
// the binary protocol, the one metastore servers speak by default.
func ParseProtocol(name string) (Protocol, error) {
	switch p := Protocol(strings.ToLower(strings.TrimSpace(name))); p {
	case "":
		return ProtocolBinary, nil
	case ProtocolBinary, ProtocolCompact, ProtocolJSON:
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProtocol, name)
}

func (p Protocol) protocol(t thrift.TTransport) (thrift.TProtocol, error) {
	switch p {
	case ProtocolBinary:
		return thrift.NewTBinaryProtocolConf(t, &thrift.TConfiguration{}), nil
	case ProtocolCompact:
		return thrift.NewTCompactProtocolConf(t, &thrift.TConfiguration{}), nil
	case ProtocolJSON:
		return thrift.NewTJSONProtocol(t), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownProtocol, string(p))
}

// Marshal encodes s with the given protocol.
func Marshal(ctx context.Context, s thrift.TStruct, p Protocol) ([]byte, error) {
	buf := thrift.NewTMemoryBufferLen(1024)
	prot, err := p.protocol(buf)
	if err != nil {
		return nil, err
	}
	serializer := &thrift.TSerializer{Transport: buf, Protocol: prot}

	data, err := serializer.Write(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("encoding %T with %s protocol: %w", s, p, err)
	}
	return data, nil
}

// Unmarshal decodes data produced by Marshal with the same protocol into s.
func Unmarshal(ctx context.Context, data []byte, s thrift.TStruct, p Protocol) error {
	buf := thrift.NewTMemoryBufferLen(len(data))
	prot, err := p.protocol(buf)
	if err != nil {
		return err
	}
	deserializer := &thrift.TDeserializer{Transport: buf, Protocol: prot}

	if err := deserializer.Read(ctx, s, data); err != nil {
		return fmt.Errorf("decoding %T with %s protocol: %w", s, p, err)
	}
	return nil
}

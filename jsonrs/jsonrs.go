// Package jsonrs is the JSON facade used across the module. The
// implementation is github.com/json-iterator/go configured to behave like
// encoding/json.
package jsonrs

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

type Decoder interface {
	Decode(v any) error
}

type Encoder interface {
	Encode(v any) error
	SetIndent(prefix, indent string)
}

var std = jsoniter.ConfigCompatibleWithStandardLibrary

func Marshal(v any) ([]byte, error) {
	return std.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return std.MarshalIndent(v, prefix, indent)
}

func Unmarshal(data []byte, v any) error {
	return std.Unmarshal(data, v)
}

func NewDecoder(r io.Reader) Decoder {
	return std.NewDecoder(r)
}

func NewEncoder(w io.Writer) Encoder {
	return std.NewEncoder(w)
}

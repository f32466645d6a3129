// Package yaml wraps goccy/go-yaml with the encoder/decoder defaults used
// across the project, plus JSON schema validation for config documents.
// JSON input is accepted everywhere YAML is, since YAML is a superset.
package yaml

import (
	"io"

	"github.com/goccy/go-yaml"
)

type Decoder struct {
	d *yaml.Decoder
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{
		d: yaml.NewDecoder(r, yaml.AllowDuplicateMapKey()),
	}
}

func (d *Decoder) Decode(v any) error {
	return d.d.Decode(v) //nolint:wrapcheck // Return the original error.
}

type Encoder struct {
	e *yaml.Encoder
}

func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		e: yaml.NewEncoder(w, yaml.Indent(2), yaml.IndentSequence(true)),
	}
}

func (e *Encoder) Encode(v any) error {
	return e.e.Encode(v) //nolint:wrapcheck // Return the original error.
}

func (e *Encoder) Close() error {
	return e.e.Close() //nolint:wrapcheck // Return the original error.
}

// Marshal encodes v with the project defaults.
func Marshal(v any) ([]byte, error) {
	return yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true)) //nolint:wrapcheck
}

// Unmarshal decodes data into v with the project defaults.
func Unmarshal(data []byte, v any) error {
	return yaml.UnmarshalWithOptions(data, v, yaml.AllowDuplicateMapKey()) //nolint:wrapcheck
}

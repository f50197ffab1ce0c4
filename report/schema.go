package report

import (
	_ "embed"
	"io"
)

//go:embed result.schema.json
var resultSchema []byte

// Schema returns the JSON Schema describing a result document.
func Schema() []byte {
	out := make([]byte, len(resultSchema))
	copy(out, resultSchema)

	return out
}

// WriteSchema writes the result JSON Schema to w.
func WriteSchema(w io.Writer) error {
	_, err := w.Write(resultSchema)

	return err
}

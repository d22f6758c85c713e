// Package export renders outline results for consumers: the canonical
// JSON contract document, schema validation for it, and spreadsheet
// reports over batch runs.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/strucdoc/strata/model"
)

// MarshalOutline renders the outline contract document with two-space
// indentation and a trailing newline. Identical outlines marshal to
// identical bytes.
func MarshalOutline(o model.Outline) ([]byte, error) {
	out, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal outline: %w", err)
	}
	return append(out, '\n'), nil
}

// WriteJSON writes the outline contract document to w.
func WriteJSON(w io.Writer, o model.Outline) error {
	data, err := MarshalOutline(o)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	return nil
}

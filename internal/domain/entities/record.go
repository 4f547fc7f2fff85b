package entities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Common errors
var (
	ErrNotFound           = errors.New("record not found")
	ErrValidation         = errors.New("validation failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrCorruptData        = errors.New("corrupt collection data")
)

// Well-known record fields
const (
	FieldID      = "id"
	FieldOwnerID = "ownerId"
)

// Record is one entry of a collection: arbitrary caller fields plus id and ownerId.
type Record map[string]any

// ID returns the record identifier when it holds an integer.
func (r Record) ID() (int64, bool) {
	return toInt64(r[FieldID])
}

// OwnerID returns the owner identifier when it holds an integer.
func (r Record) OwnerID() (int64, bool) {
	return toInt64(r[FieldOwnerID])
}

// HasID reports whether the record's id equals id.
func (r Record) HasID(id int64) bool {
	v, ok := r.ID()
	return ok && v == id
}

// OwnedBy reports whether the record's ownerId equals ownerID.
func (r Record) OwnedBy(ownerID int64) bool {
	v, ok := r.OwnerID()
	return ok && v == ownerID
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a new record holding r's fields overwritten by patch's fields.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// DecodeRecord reads a single JSON object. Numbers are kept as json.Number.
func DecodeRecord(r io.Reader) (Record, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rec Record
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("%w: body must be a JSON object", ErrValidation)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON object", ErrValidation)
	}

	return rec, nil
}

// DecodeCollection parses a stored collection document: a JSON array of objects.
func DecodeCollection(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrCorruptData)
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var records []Record
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after array", ErrCorruptData)
	}

	for i, rec := range records {
		if rec == nil {
			return nil, fmt.Errorf("%w: element %d is not an object", ErrCorruptData, i)
		}
	}

	if records == nil {
		records = []Record{}
	}

	return records, nil
}

// EncodeCollection renders records as an indented JSON array.
func EncodeCollection(records []Record) ([]byte, error) {
	if records == nil {
		records = []Record{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, fmt.Errorf("failed to encode collection: %w", err)
	}

	return buf.Bytes(), nil
}

// ParseOwnerID parses an ownerId query value. Empty or non-integer input yields nil.
func ParseOwnerID(raw string) *int64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt64(f)
	case float64:
		return floatToInt64(n)
	case int:
		return int64(n), true
	case int64:
		return n, true
	case int32:
		return int64(n), true
	default:
		return 0, false
	}
}

func floatToInt64(f float64) (int64, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, false
	}
	return int64(f), true
}

package datexport

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
)

// ErrUnknownKey is returned when a lookup names a key the document does not hold.
var ErrUnknownKey = errors.New("unknown key")

// Record is the exported entry for one device. Association lists the other
// devices named on the device's row; the layer fields are left empty here and
// filled in by later tooling.
//
// A record decoded from JSON remembers the order of its properties and keeps
// the ones Record has no field for, so it encodes back with the same shape.
type Record struct {
	Association     []string `json:"association"`
	PowerRail       []any    `json:"power_rail"`
	ERoTControl     []any    `json:"erot_control"`
	PinStatus       []any    `json:"pin_status"`
	InterfaceStatus []any    `json:"interface_status"`
	ProtocolStatus  []any    `json:"protocol_status"`
	FirmwareStatus  []any    `json:"firmware_status"`

	order []string                   // property names in input order; nil for built records
	extra map[string]json.RawMessage // properties without a field, compacted
}

// associationName is the JSON name of Record.Association.
const associationName = "association"

// LayerNames lists the JSON names of the placeholder layers in output order.
var LayerNames = []string{
	"power_rail",
	"erot_control",
	"pin_status",
	"interface_status",
	"protocol_status",
	"firmware_status",
}

// NewRecord creates a Record with the given association and empty layers.
// A nil association is stored as an empty list.
func NewRecord(association []string) *Record {
	if association == nil {
		association = []string{}
	}
	return &Record{
		Association:     association,
		PowerRail:       []any{},
		ERoTControl:     []any{},
		PinStatus:       []any{},
		InterfaceStatus: []any{},
		ProtocolStatus:  []any{},
		FirmwareStatus:  []any{},
	}
}

// Layers returns the layer lists in LayerNames order.
func (r *Record) Layers() [][]any {
	return [][]any{r.PowerRail, r.ERoTControl, r.PinStatus, r.InterfaceStatus, r.ProtocolStatus, r.FirmwareStatus}
}

// layer returns the field holding the named layer, or nil when name is not a layer.
func (r *Record) layer(name string) *[]any {
	fields := []*[]any{&r.PowerRail, &r.ERoTControl, &r.PinStatus, &r.InterfaceStatus, &r.ProtocolStatus, &r.FirmwareStatus}
	if i := slices.Index(LayerNames, name); i >= 0 {
		return fields[i]
	}
	return nil
}

// Extra returns the raw JSON of a decoded property Record has no field for.
func (r *Record) Extra(name string) (json.RawMessage, bool) {
	v, ok := r.extra[name]
	return v, ok
}

// clone returns a copy of r whose lists can be replaced without touching r.
func (r *Record) clone() *Record {
	cp := *r
	cp.order = slices.Clone(r.order)
	if r.extra != nil {
		cp.extra = maps.Clone(r.extra)
	}
	return &cp
}

// propertyNames returns the names to encode. Built records always carry the
// association and every layer. Decoded records carry what the input had, plus
// any known field that was set since.
func (r *Record) propertyNames() []string {
	if r.order == nil {
		return append([]string{associationName}, LayerNames...)
	}
	names := slices.Clone(r.order)
	if r.Association != nil && !slices.Contains(names, associationName) {
		names = append(names, associationName)
	}
	for _, name := range LayerNames {
		if *r.layer(name) != nil && !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// MarshalJSON encodes the record with nil lists written as [].
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range r.propertyNames() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalRaw(name)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := r.property(name)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", name, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (r *Record) property(name string) ([]byte, error) {
	if name == associationName {
		if r.Association == nil {
			return []byte("[]"), nil
		}
		return marshalRaw(r.Association)
	}
	if layer := r.layer(name); layer != nil {
		if *layer == nil {
			return []byte("[]"), nil
		}
		return marshalRaw(*layer)
	}
	return r.extra[name], nil
}

// UnmarshalJSON decodes a record object, keeping the property order and any
// property Record has no field for.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := openObject(dec); err != nil {
		return err
	}

	*r = Record{order: []string{}}
	for dec.More() {
		name, err := objectKey(dec)
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if !slices.Contains(r.order, name) {
			r.order = append(r.order, name)
		}

		switch layer := r.layer(name); {
		case name == associationName:
			r.Association = nil
			if err := json.Unmarshal(raw, &r.Association); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		case layer != nil:
			*layer = nil
			if err := json.Unmarshal(raw, layer); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		default:
			var compact bytes.Buffer
			if err := json.Compact(&compact, raw); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if r.extra == nil {
				r.extra = make(map[string]json.RawMessage)
			}
			r.extra[name] = compact.Bytes()
		}
	}
	_, err := dec.Token()
	return err
}

// openObject consumes the opening brace of a JSON object.
func openObject(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object, got %v", tok)
	}
	return nil
}

// objectKey reads the next property name of a JSON object.
func objectKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected key, got %v", tok)
	}
	return key, nil
}

// Document maps device keys to records and remembers the order in which keys
// first appeared. Replacing a key keeps its original position. Keys are never
// reordered, so integer-like keys stay where they first appeared rather than
// moving to the front as they would in a JavaScript object.
type Document struct {
	keys    []string
	records map[string]*Record
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{records: make(map[string]*Record)}
}

// Set stores rec under key, replacing any previous record for the key.
func (d *Document) Set(key string, rec *Record) {
	if _, ok := d.records[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.records[key] = rec
}

// Get returns the record stored under key.
func (d *Document) Get(key string) (*Record, bool) {
	rec, ok := d.records[key]
	return rec, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.records[key]
	return ok
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	return append([]string(nil), d.keys...)
}

// Len returns the number of records.
func (d *Document) Len() int {
	return len(d.keys)
}

// MarshalJSON encodes the document as a JSON object with keys in insertion order.
func (d *Document) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range d.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalRaw(key)
		if err != nil {
			return nil, fmt.Errorf("encode key %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := marshalRaw(d.records[key])
		if err != nil {
			return nil, fmt.Errorf("encode record %q: %w", key, err)
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalRaw encodes v without HTML escaping.
func marshalRaw(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// UnmarshalJSON decodes a JSON object into the document, keeping the key order
// of the input. Duplicate keys follow the same last-wins rule as conversion.
func (d *Document) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := openObject(dec); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	d.keys = nil
	d.records = make(map[string]*Record)
	for dec.More() {
		key, err := objectKey(dec)
		if err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		rec := &Record{}
		if err := dec.Decode(rec); err != nil {
			return fmt.Errorf("decode record %q: %w", key, err)
		}
		d.Set(key, rec)
	}
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// LoadDocument reads a previously exported JSON document from r.
func LoadDocument(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

package datexport

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDocument_Format(t *testing.T) {
	doc := Convert(Grid{
		{"A", "1", "", "n/a"},
		{"", "x", "y", ""},
		{"A", "", "2", "3"},
	})

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))

	want := `{
  "A": {
    "association": [
      "2",
      "3"
    ],
    "power_rail": [],
    "erot_control": [],
    "pin_status": [],
    "interface_status": [],
    "protocol_status": [],
    "firmware_status": []
  }
}
`
	assert.Equal(t, want, buf.String())
}

func TestWriteDocument_KeyOrder(t *testing.T) {
	doc := Convert(Grid{{"zeta"}, {"alpha"}, {"mid"}, {"alpha", "x"}})

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	out := buf.String()

	z := strings.Index(out, `"zeta"`)
	a := strings.Index(out, `"alpha"`)
	m := strings.Index(out, `"mid"`)
	assert.True(t, z < a && a < m, "keys must follow first appearance, got:\n%s", out)
}

func TestWriteDocument_NumericKeysKeepRowOrder(t *testing.T) {
	doc := Convert(Grid{{"B"}, {"10"}, {"2"}})
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	out := string(data)
	b := strings.Index(out, `"B"`)
	ten := strings.Index(out, `"10"`)
	two := strings.Index(out, `"2"`)
	assert.True(t, b < ten && ten < two, "keys must follow row order, got %s", out)
}

func TestWriteDocument_EmptyDocument(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, NewDocument()))
	assert.Equal(t, "{}\n", buf.String())
}

func TestWriteDocument_NoHTMLEscaping(t *testing.T) {
	doc := Convert(Grid{{"A&B", "<PEX>"}})
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	assert.Contains(t, buf.String(), `"A&B"`)
	assert.Contains(t, buf.String(), `"<PEX>"`)
}

func TestDocument_MarshalNilLayers(t *testing.T) {
	doc := NewDocument()
	doc.Set("A", &Record{})
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"A":{"association":[],"power_rail":[],"erot_control":[],"pin_status":[],"interface_status":[],"protocol_status":[],"firmware_status":[]}}`, string(data))
}

func TestLoadDocument_KeepsOrderAndLayers(t *testing.T) {
	input := `{
  "GPU0": {"association": ["HSC0"], "power_rail": [{"name": "tp1"}]},
  "HSC0": {"association": []},
  "AAA": {"association": ["GPU0"], "firmware_status": []}
}`
	doc, err := LoadDocument(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"GPU0", "HSC0", "AAA"}, doc.Keys())

	gpu, _ := doc.Get("GPU0")
	require.Len(t, gpu.PowerRail, 1)
	assert.Equal(t, map[string]any{"name": "tp1"}, gpu.PowerRail[0])
	assert.Nil(t, gpu.PinStatus)

	hsc, _ := doc.Get("HSC0")
	assert.Equal(t, []string{}, hsc.Association)
}

func TestLoadDocument_Invalid(t *testing.T) {
	_, err := LoadDocument(strings.NewReader(`[1, 2]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected object")

	_, err = LoadDocument(strings.NewReader(`{"A": {"association": "x"}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `decode record "A"`)

	_, err = LoadDocument(strings.NewReader(`{"A": `))
	require.Error(t, err)
}

func TestDocument_Keys_ReturnsCopy(t *testing.T) {
	doc := Convert(Grid{{"A"}, {"B"}})
	keys := doc.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"A", "B"}, doc.Keys())
}

func TestNewRecord_NilAssociation(t *testing.T) {
	rec := NewRecord(nil)
	assert.Equal(t, []string{}, rec.Association)
	assert.Len(t, rec.Layers(), len(LayerNames))
	for _, layer := range rec.Layers() {
		assert.Equal(t, []any{}, layer)
	}
}

func TestLoadDocument_RoundTripKeepsShape(t *testing.T) {
	input := `{
  "GPU0": {
    "association": [
      "HSC0"
    ],
    "data_dump": [
      {
        "name": "dump0",
        "value": "<0x1f>"
      }
    ],
    "power_rail": []
  },
  "HSC0": {
    "association": []
  },
  "PEX": {
    "note": null,
    "association": [
      "GPU0"
    ]
  }
}
`
	doc, err := LoadDocument(strings.NewReader(input))
	require.NoError(t, err)

	gpu, _ := doc.Get("GPU0")
	raw, ok := gpu.Extra("data_dump")
	require.True(t, ok)
	assert.JSONEq(t, `[{"name":"dump0","value":"<0x1f>"}]`, string(raw))

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, doc))
	assert.Equal(t, input, buf.String())
}

func TestRecord_SetFieldAfterLoad(t *testing.T) {
	doc, err := LoadDocument(strings.NewReader(`{"A": {"meta": {"rev": 2}}}`))
	require.NoError(t, err)

	rec, _ := doc.Get("A")
	rec.Association = []string{"B"}
	rec.PinStatus = []any{"tp"}

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"A":{"meta":{"rev":2},"association":["B"],"pin_status":["tp"]}}`, string(data))
}

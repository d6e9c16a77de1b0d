package datexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boardDocument() *Document {
	return Convert(Grid{
		{"Baseboard", "GPU0", "GPU1"},
		{"GPU0", "HSC0", "VR_VDD/HVDD/DVDD"},
		{"GPU1", "HSC1"},
		{"HSC0", "VR_VDD/HVDD/DVDD"},
		{"HSC1"},
		{"VR_VDD/HVDD/DVDD", "Baseboard"},
		{"PEX"},
	})
}

func TestSubTree_FromRoot(t *testing.T) {
	sub, err := boardDocument().SubTree("GPU0")
	require.NoError(t, err)

	assert.Equal(t, []string{"Baseboard", "GPU0", "GPU1", "HSC0", "HSC1", "VR"}, sub.Keys())
}

func TestSubTree_TrimsAssociations(t *testing.T) {
	sub, err := boardDocument().SubTree("GPU1")
	require.NoError(t, err)
	assert.Equal(t, []string{"GPU1", "HSC1"}, sub.Keys())

	gpu1, _ := sub.Get("GPU1")
	assert.Equal(t, []string{"HSC1"}, gpu1.Association)
}

func TestSubTree_Leaf(t *testing.T) {
	sub, err := boardDocument().SubTree("PEX")
	require.NoError(t, err)
	assert.Equal(t, []string{"PEX"}, sub.Keys())
	rec, _ := sub.Get("PEX")
	assert.Empty(t, rec.Association)
}

func TestSubTree_DoesNotModifySource(t *testing.T) {
	doc := Convert(Grid{{"A", "B", "missing"}, {"B"}})
	sub, err := doc.SubTree("A")
	require.NoError(t, err)

	a, _ := sub.Get("A")
	assert.Equal(t, []string{"B"}, a.Association)
	orig, _ := doc.Get("A")
	assert.Equal(t, []string{"B", "missing"}, orig.Association)
}

func TestSubTree_UnknownRoot(t *testing.T) {
	_, err := boardDocument().SubTree("nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestSubTreeFunc_LayerChildren(t *testing.T) {
	doc := NewDocument()
	root := NewRecord([]string{"ignored"})
	root.PowerRail = []any{
		map[string]any{"name": "rail", "accessor": map[string]any{"type": "DEVICE", "device_name": "HSC0"}},
		map[string]any{"name": "dbus", "accessor": map[string]any{"type": "DBUS"}},
	}
	root.FirmwareStatus = []any{"not a test point"}
	doc.Set("GPU0", root)
	doc.Set("HSC0", NewRecord(nil))
	doc.Set("ignored", NewRecord(nil))

	sub, err := doc.SubTreeFunc("GPU0", LayerChildren)
	require.NoError(t, err)
	assert.Equal(t, []string{"GPU0", "HSC0"}, sub.Keys())

	gpu, _ := sub.Get("GPU0")
	assert.Empty(t, gpu.Association)
	assert.Len(t, gpu.PowerRail, 2)
}

func TestSubTree_KeepsLoadedProperties(t *testing.T) {
	doc, err := LoadDocument(strings.NewReader(`{
  "GPU0": {"association": ["HSC0", "PEX"], "data_dump": [{"name": "d0"}], "power_rail": []},
  "HSC0": {"association": []},
  "PEX": {"association": ["GPU0"]}
}`))
	require.NoError(t, err)

	sub, err := doc.SubTree("HSC0")
	require.NoError(t, err)
	assert.Equal(t, []string{"HSC0"}, sub.Keys())

	sub, err = doc.SubTree("GPU0")
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, sub))
	assert.JSONEq(t, `{
  "GPU0": {"association": ["HSC0", "PEX"], "data_dump": [{"name": "d0"}], "power_rail": []},
  "HSC0": {"association": []},
  "PEX": {"association": ["GPU0"]}
}`, buf.String())
	assert.NotContains(t, buf.String(), "firmware_status")

	gpu, _ := sub.Get("GPU0")
	_, ok := gpu.Extra("data_dump")
	assert.True(t, ok)
}

func TestSubTree_TrimsLoadedAssociations(t *testing.T) {
	doc, err := LoadDocument(strings.NewReader(`{
  "A": {"association": ["B", "missing"], "data_dump": []},
  "B": {"association": []},
  "C": {"association": ["A"]}
}`))
	require.NoError(t, err)

	sub, err := doc.SubTree("A")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteDocument(&buf, sub))
	assert.JSONEq(t, `{"A": {"association": ["B"], "data_dump": []}, "B": {"association": []}}`, buf.String())

	orig, _ := doc.Get("A")
	assert.Equal(t, []string{"B", "missing"}, orig.Association)
}

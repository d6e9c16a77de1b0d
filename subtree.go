package datexport

import (
	"fmt"
	"slices"
)

// ChildrenFunc lists the devices a record points at.
type ChildrenFunc func(rec *Record) []string

// AssociationChildren follows the record's association list.
func AssociationChildren(rec *Record) []string {
	return rec.Association
}

// LayerChildren follows test points in the record's layers whose accessor is
// of type DEVICE, using the accessor's device_name. It only finds anything in
// documents whose layers have been filled in by later tooling.
func LayerChildren(rec *Record) []string {
	var out []string
	for _, layer := range rec.Layers() {
		for _, tp := range layer {
			m, ok := tp.(map[string]any)
			if !ok {
				continue
			}
			acc, ok := m["accessor"].(map[string]any)
			if !ok {
				continue
			}
			if typ, _ := acc["type"].(string); typ != "DEVICE" {
				continue
			}
			if name, ok := acc["device_name"].(string); ok && name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// SubTree returns the part of the document reachable from root through
// associations. Keys keep their order in d, and each association list is
// cut down to devices present in the result. Every other property of a record,
// including ones loaded from JSON that Record has no field for, is kept.
func (d *Document) SubTree(root string) (*Document, error) {
	return d.SubTreeFunc(root, AssociationChildren)
}

// SubTreeFunc is SubTree with a custom way of finding a record's children.
// Children that are not keys of d are ignored.
func (d *Document) SubTreeFunc(root string, children ChildrenFunc) (*Document, error) {
	if !d.Has(root) {
		return nil, fmt.Errorf("subtree root %q: %w", root, ErrUnknownKey)
	}

	seen := map[string]bool{root: true}
	queue := []string{root}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		rec, _ := d.Get(key)
		for _, child := range children(rec) {
			if seen[child] || !d.Has(child) {
				continue
			}
			seen[child] = true
			queue = append(queue, child)
		}
	}

	out := NewDocument()
	for _, key := range d.keys {
		if !seen[key] {
			continue
		}
		cp := d.records[key].clone()
		if cp.Association != nil {
			cp.Association = slices.DeleteFunc(slices.Clone(cp.Association), func(a string) bool { return !seen[a] })
		}
		out.Set(key, cp)
	}
	return out, nil
}

package autofill

import (
	"context"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// index maps each key to the controls that derive it. Radios of one group
// are kept together; any other collision keeps the last control.
type index map[string][]Control

func (e *Engine) buildIndex(controls []Control) index {
	idx := make(index, len(controls))
	for _, c := range controls {
		key := DeriveKey(c)
		prev, exists := idx[key]
		if c.Kind == KindRadio && exists && prev[0].Kind == KindRadio {
			idx[key] = append(prev, c)
			continue
		}
		if exists {
			e.log.Debugf("key %s derived by more than one control; keeping the last", key)
		}
		idx[key] = []Control{c}
	}
	return idx
}

// Fill writes snap into doc and returns how many entries were applied.
// Keys without a matching control are skipped. Entries are processed one
// at a time in sorted key order.
func (e *Engine) Fill(ctx context.Context, doc dom.Document, snap snapshot.FieldSnapshot) (int, error) {
	controls, err := e.Enumerate(ctx, doc)
	if err != nil {
		return 0, err
	}
	defer release(controls)
	idx := e.buildIndex(controls)

	filled := 0
	for _, key := range snap.Keys() {
		group, ok := idx[key]
		if !ok {
			if IsStructuralKey(key) {
				e.log.Debugf("no control at %s; the page layout may have changed", key)
			}
			continue
		}
		value := snap[key]

		applied, err := e.apply(ctx, doc, group, value)
		if err != nil {
			e.log.Warnf("fill %s failed: %v", key, err)
			continue
		}
		if applied {
			filled++
		}
	}
	e.log.Debugf("filled %d of %d entries", filled, len(snap))
	return filled, nil
}

func (e *Engine) apply(ctx context.Context, doc dom.Document, group []Control, value string) (bool, error) {
	c := group[len(group)-1]
	switch c.Kind {
	case KindSelect:
		return writeSelect(ctx, c, value)
	case KindCheckbox:
		return writeCheckbox(ctx, c, value)
	case KindRadio:
		return writeRadio(ctx, group, value)
	case KindCombo:
		return e.automate(ctx, doc, c, value)
	default:
		return writeText(ctx, c, value)
	}
}

package autofill

import (
	"context"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// Capture reads every eligible control of doc into a snapshot. It does not
// mutate the page. A document without eligible controls yields an empty
// snapshot.
func (e *Engine) Capture(ctx context.Context, doc dom.Document) (snapshot.FieldSnapshot, error) {
	controls, err := e.Enumerate(ctx, doc)
	if err != nil {
		return nil, err
	}
	defer release(controls)

	snap := make(snapshot.FieldSnapshot, len(controls))
	for _, c := range controls {
		value, ok := Encode(c)
		if !ok {
			continue
		}
		key := DeriveKey(c)
		if c.Kind != KindCheckbox && snapshot.IsSentinel(value) {
			e.log.Debugf("%s holds the reserved token %s as plain text", key, value)
		}
		snap[key] = value
	}
	e.log.Debugf("captured %d fields from %d controls", len(snap), len(controls))
	return snap, nil
}

package autofill

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
	"github.com/Lenersebastian/sebov-autofill/pkg/dom/memdom"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// handleDoc hands out disposable wrappers and counts the live ones, the way
// a page backed by remote handles would.
type handleDoc struct {
	*memdom.Document
	live    map[*handle]bool
	handed  int
	doubled int
}

type handle struct {
	dom.Element
	doc *handleDoc
}

func newHandleDoc(t *testing.T, src string) *handleDoc {
	t.Helper()
	return &handleDoc{Document: parse(t, src), live: make(map[*handle]bool)}
}

func (d *handleDoc) wrap(els []dom.Element, err error) ([]dom.Element, error) {
	if err != nil {
		return nil, err
	}
	out := make([]dom.Element, len(els))
	for i, el := range els {
		h := &handle{Element: el, doc: d}
		d.live[h] = true
		d.handed++
		out[i] = h
	}
	return out, nil
}

func (d *handleDoc) Controls(ctx context.Context) ([]dom.Element, error) {
	return d.wrap(d.Document.Controls(ctx))
}

func (d *handleDoc) QueryAll(ctx context.Context, selector string) ([]dom.Element, error) {
	return d.wrap(d.Document.QueryAll(ctx, selector))
}

func (h *handle) Related(ctx context.Context, selector string) ([]dom.Element, error) {
	return h.doc.wrap(h.Element.Related(ctx, selector))
}

func (h *handle) QueryAll(ctx context.Context, selector string) ([]dom.Element, error) {
	return h.doc.wrap(h.Element.QueryAll(ctx, selector))
}

func (h *handle) Dispose() error {
	if !h.doc.live[h] {
		h.doc.doubled++
	}
	delete(h.doc.live, h)
	return nil
}

func TestCaptureReleasesHandles(t *testing.T) {
	doc := newHandleDoc(t, `<form>
		<input name="a" value="1">
		<input type="hidden" name="h">
		<input name="combo" readonly><span class="x-form-trigger"></span><span class="x-form-trigger"></span>
		<input type="password" name="pw">
	</form>`)

	e, _ := newTestEngine(newFakeClock())
	snap, err := e.Capture(context.Background(), doc)
	require.NoError(t, err)
	assert.Len(t, snap, 2)

	assert.NotZero(t, doc.handed)
	assert.Empty(t, doc.live)
	assert.Zero(t, doc.doubled)
}

func TestComboFillReleasesHandles(t *testing.T) {
	clock := newFakeClock()
	e, _ := newTestEngine(clock)
	doc := newHandleDoc(t, comboPage(`data-opens="#country-list"`)+`<ul><li>decoy</li></ul>`)

	filled, err := e.Fill(context.Background(), doc, snapshot.FieldSnapshot{"input::name=country": "Greece"})
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "Greece", doc.ByID("country").Value())

	assert.Empty(t, doc.live, "polling, option matching and the control list leave no handle behind")
	assert.Zero(t, doc.doubled)
}

func TestComboFallbackReleasesHandles(t *testing.T) {
	e, _ := newTestEngine(newFakeClock())
	doc := newHandleDoc(t, comboPage(""))

	filled, err := e.Fill(context.Background(), doc, snapshot.FieldSnapshot{"input::name=country": "Greece"})
	require.NoError(t, err)
	assert.Equal(t, 1, filled)

	assert.Empty(t, doc.live)
	assert.Zero(t, doc.doubled)
}

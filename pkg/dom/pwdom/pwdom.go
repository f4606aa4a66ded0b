// Package pwdom implements dom.Document over a live Playwright page.
//
// Reads are batched into one evaluation per element. Mutations run as small
// scripts inside the page so that the base-prototype setter and bubbling
// events behave exactly as they would for page code.
package pwdom

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

const stateScript = `(el, names) => {
	const cs = window.getComputedStyle(el);
	const attrs = {};
	for (const n of names) {
		const v = el.getAttribute(n);
		if (v !== null) attrs[n] = v;
	}
	return {
		tag: el.tagName.toLowerCase(),
		type: typeof el.type === "string" ? el.type.toLowerCase() : "",
		attrs,
		disabled: !!el.disabled,
		readOnly: !!el.readOnly,
		visible: cs.display !== "none" && cs.visibility !== "hidden" && cs.visibility !== "collapse",
		value: typeof el.value === "string" ? el.value : "",
		checked: !!el.checked,
		text: el.textContent || "",
		formIndex: el.form ? Array.prototype.indexOf.call(document.forms, el.form) : -1,
	};
}`

const nativeSetScript = `(el, v) => {
	const proto = el instanceof HTMLTextAreaElement ? HTMLTextAreaElement.prototype
		: el instanceof HTMLSelectElement ? HTMLSelectElement.prototype
		: HTMLInputElement.prototype;
	const desc = Object.getOwnPropertyDescriptor(proto, "value");
	if (desc && desc.set) {
		desc.set.call(el, v);
	} else {
		el.value = v;
	}
}`

const (
	setValueScript   = `(el, v) => { el.value = v; }`
	setCheckedScript = `(el, c) => { el.checked = c; }`
	clickScript      = `el => el.click()`
	dispatchScript   = `(el, t) => { el.dispatchEvent(new Event(t, { bubbles: true })); }`
	parentScript     = `el => el.parentElement`
	sameScript       = `(a, b) => a === b`
)

// Document is a dom.Document over one Playwright page.
type Document struct {
	page playwright.Page
}

var _ dom.Document = (*Document)(nil)

// New wraps a page.
func New(page playwright.Page) *Document {
	return &Document{page: page}
}

// Controls returns every input, select and textarea in document order.
func (d *Document) Controls(ctx context.Context) ([]dom.Element, error) {
	return d.QueryAll(ctx, "input, select, textarea")
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(ctx context.Context, selector string) ([]dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := d.page.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}
	return wrap(handles), nil
}

// Element is a dom.Element over a Playwright element handle.
type Element struct {
	handle playwright.ElementHandle
}

var (
	_ dom.Element  = (*Element)(nil)
	_ dom.Disposer = (*Element)(nil)
)

func wrap(handles []playwright.ElementHandle) []dom.Element {
	out := make([]dom.Element, 0, len(handles))
	for _, h := range handles {
		out = append(out, &Element{handle: h})
	}
	return out
}

type wireState struct {
	Tag       string            `json:"tag"`
	Type      string            `json:"type"`
	Attrs     map[string]string `json:"attrs"`
	Disabled  bool              `json:"disabled"`
	ReadOnly  bool              `json:"readOnly"`
	Visible   bool              `json:"visible"`
	Value     string            `json:"value"`
	Checked   bool              `json:"checked"`
	Text      string            `json:"text"`
	FormIndex int               `json:"formIndex"`
}

// State reads the element in one evaluation.
func (e *Element) State(ctx context.Context) (dom.State, error) {
	if err := ctx.Err(); err != nil {
		return dom.State{}, err
	}
	raw, err := e.handle.Evaluate(stateScript, dom.StateAttrs)
	if err != nil {
		return dom.State{}, fmt.Errorf("state evaluation failed: %w", err)
	}

	// Evaluate returns generic maps; round-trip through JSON into the
	// typed shape.
	data, err := json.Marshal(raw)
	if err != nil {
		return dom.State{}, fmt.Errorf("failed to encode state: %w", err)
	}
	var ws wireState
	if err := json.Unmarshal(data, &ws); err != nil {
		return dom.State{}, fmt.Errorf("failed to decode state: %w", err)
	}

	return dom.State{
		Tag:       ws.Tag,
		Type:      ws.Type,
		Attrs:     ws.Attrs,
		Disabled:  ws.Disabled,
		ReadOnly:  ws.ReadOnly,
		Visible:   ws.Visible,
		Value:     ws.Value,
		Checked:   ws.Checked,
		Text:      ws.Text,
		FormIndex: ws.FormIndex,
	}, nil
}

// SetValue assigns el.value, going through any instance override.
func (e *Element) SetValue(ctx context.Context, value string) error {
	return e.run(ctx, "set value", setValueScript, value)
}

// SetNativeValue calls the prototype's value setter directly.
func (e *Element) SetNativeValue(ctx context.Context, value string) error {
	return e.run(ctx, "native set value", nativeSetScript, value)
}

// SetChecked assigns el.checked.
func (e *Element) SetChecked(ctx context.Context, checked bool) error {
	return e.run(ctx, "set checked", setCheckedScript, checked)
}

// Click calls el.click() in the page. Playwright's actionability checks
// are skipped on purpose: option lists are often mid-animation.
func (e *Element) Click(ctx context.Context) error {
	return e.run(ctx, "click", clickScript, nil)
}

// Dispatch emits a bubbling event.
func (e *Element) Dispatch(ctx context.Context, event string) error {
	return e.run(ctx, "dispatch "+event, dispatchScript, event)
}

// Related queries the parent element and drops e from the result.
func (e *Element) Related(ctx context.Context, selector string) ([]dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	js, err := e.handle.EvaluateHandle(parentScript)
	if err != nil {
		return nil, fmt.Errorf("parent lookup failed: %w", err)
	}
	defer js.Dispose()
	parent := js.AsElement()
	if parent == nil {
		return nil, nil
	}
	handles, err := parent.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}

	var related []playwright.ElementHandle
	for i, h := range handles {
		same, err := e.handle.Evaluate(sameScript, h)
		if err != nil {
			disposeAll(handles[i:])
			disposeAll(related)
			return nil, fmt.Errorf("identity check failed: %w", err)
		}
		if isSame, _ := same.(bool); isSame {
			h.Dispose()
			continue
		}
		related = append(related, h)
	}
	return wrap(related), nil
}

// Dispose releases the element handle.
func (e *Element) Dispose() error {
	return e.handle.Dispose()
}

func disposeAll(handles []playwright.ElementHandle) {
	for _, h := range handles {
		h.Dispose()
	}
}

// QueryAll returns the descendants matching selector.
func (e *Element) QueryAll(ctx context.Context, selector string) ([]dom.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	handles, err := e.handle.QuerySelectorAll(selector)
	if err != nil {
		return nil, fmt.Errorf("query %q failed: %w", selector, err)
	}
	return wrap(handles), nil
}

func (e *Element) run(ctx context.Context, op, script string, arg interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := e.handle.Evaluate(script, arg); err != nil {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	return nil
}

package memdom

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

// Element is one node of a Document with its live control state.
type Element struct {
	doc  *Document
	node *html.Node

	value   string
	checked bool

	// tracker is the last value a framework saw; only used on elements
	// marked data-framework.
	tracker string
}

var _ dom.Element = (*Element)(nil)

func newElement(d *Document, n *html.Node) *Element {
	el := &Element{doc: d, node: n}
	switch n.Data {
	case "input":
		el.value = getAttr(n, "value")
		el.checked = hasAttr(n, "checked")
		if t := domType(n); (t == "checkbox" || t == "radio") && !hasAttr(n, "value") {
			el.value = "on"
		}
	case "textarea":
		el.value = el.selection().Text()
	case "select":
		el.value = el.initialSelection()
	}
	el.tracker = el.value
	return el
}

// Value returns the live value.
func (e *Element) Value() string { return e.value }

// Checked returns the live checked state.
func (e *Element) Checked() bool { return e.checked }

// Target is the label the element is recorded under in Events and Changes:
// its id, else its name, else its tag.
func (e *Element) Target() string {
	if id := getAttr(e.node, "id"); id != "" {
		return id
	}
	if name := getAttr(e.node, "name"); name != "" {
		return name
	}
	return e.node.Data
}

// State reads the element's current state.
func (e *Element) State(_ context.Context) (dom.State, error) {
	if hasAttr(e.node, "data-throws") {
		return dom.State{}, fmt.Errorf("memdom: reading %s failed", e.Target())
	}

	attrs := make(map[string]string, len(dom.StateAttrs))
	for _, name := range dom.StateAttrs {
		if hasAttr(e.node, name) {
			attrs[name] = getAttr(e.node, name)
		}
	}

	return dom.State{
		Tag:       e.node.Data,
		Type:      domType(e.node),
		Attrs:     attrs,
		Disabled:  hasAttr(e.node, "disabled"),
		ReadOnly:  hasAttr(e.node, "readonly"),
		Visible:   visible(e.node),
		Value:     e.value,
		Checked:   e.checked,
		Text:      e.text(),
		FormIndex: e.doc.formIndex(e.node),
	}, nil
}

// SetValue assigns through the instance setter. A framework tracker sees
// the assignment and will not report it on the next input event.
func (e *Element) SetValue(_ context.Context, value string) error {
	if err := e.assign(value); err != nil {
		return err
	}
	e.tracker = e.value
	return nil
}

// SetNativeValue assigns through the base-prototype setter, leaving any
// framework tracker untouched.
func (e *Element) SetNativeValue(_ context.Context, value string) error {
	return e.assign(value)
}

func (e *Element) assign(value string) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	if e.node.Data == "select" {
		e.value = ""
		for _, opt := range e.options() {
			if opt == value {
				e.value = value
				break
			}
		}
		return nil
	}
	e.value = value
	return nil
}

// SetChecked assigns the checked state. Checking a radio unchecks the
// other members of its group.
func (e *Element) SetChecked(_ context.Context, checked bool) error {
	if err := e.checkMutable(); err != nil {
		return err
	}
	e.checked = checked
	if checked && domType(e.node) == "radio" {
		for _, other := range e.doc.radioGroup(e.node) {
			if other != e {
				other.checked = false
			}
		}
	}
	return nil
}

// Click records a click and runs the element's scripted behaviour.
func (e *Element) Click(ctx context.Context) error {
	if hasAttr(e.node, "data-click-throws") {
		return fmt.Errorf("memdom: click on %s failed", e.Target())
	}
	e.doc.record(e.Target(), "click")

	if sel := getAttr(e.node, "data-opens"); sel != "" {
		e.doc.SetStyle(sel, "display", "block")
	}
	if id := getAttr(e.node, "data-picks"); id != "" {
		if target := e.doc.ByID(id); target != nil {
			if err := target.SetValue(ctx, strings.TrimSpace(e.text())); err != nil {
				return err
			}
		}
		for p := e.node.Parent; p != nil; p = p.Parent {
			if p.Type == html.ElementNode && hasAttr(p, "data-popup") {
				setStyleProperty(p, "display", "none")
				break
			}
		}
	}
	return nil
}

// Dispatch records the event and lets a framework tracker observe it.
func (e *Element) Dispatch(_ context.Context, event string) error {
	e.doc.record(e.Target(), event)
	if !hasAttr(e.node, "data-framework") {
		return nil
	}
	if event != dom.EventInput && event != dom.EventChange {
		return nil
	}
	if e.value != e.tracker {
		e.tracker = e.value
		e.doc.changes = append(e.doc.changes, Change{Target: e.Target(), Value: e.value})
	}
	return nil
}

// Related returns matches inside the parent container, excluding e.
func (e *Element) Related(_ context.Context, selector string) ([]dom.Element, error) {
	parent := e.node.Parent
	if parent == nil {
		return nil, nil
	}
	var nodes []*html.Node
	for _, n := range e.doc.doc.FindNodes(parent).Find(selector).Nodes {
		if n != e.node {
			nodes = append(nodes, n)
		}
	}
	return e.doc.wrap(nodes), nil
}

// QueryAll returns the descendants matching selector.
func (e *Element) QueryAll(_ context.Context, selector string) ([]dom.Element, error) {
	return e.doc.wrap(e.selection().Find(selector).Nodes), nil
}

func (e *Element) checkMutable() error {
	if hasAttr(e.node, "data-mutate-throws") {
		return fmt.Errorf("memdom: writing %s failed", e.Target())
	}
	return nil
}

func (e *Element) selection() *goquery.Selection {
	return e.doc.doc.FindNodes(e.node)
}

func (e *Element) text() string {
	return e.selection().Text()
}

// options returns the option values of a select in document order.
func (e *Element) options() []string {
	var values []string
	e.selection().Find("option").Each(func(_ int, s *goquery.Selection) {
		values = append(values, optionValue(s))
	})
	return values
}

// initialSelection mirrors the browser: the last option marked selected,
// else the first option.
func (e *Element) initialSelection() string {
	opts := e.selection().Find("option")
	if opts.Length() == 0 {
		return ""
	}
	selected := opts.Filter("[selected]")
	if selected.Length() > 0 {
		return optionValue(selected.Last())
	}
	return optionValue(opts.First())
}

func optionValue(s *goquery.Selection) string {
	if v, ok := s.Attr("value"); ok {
		return v
	}
	return strings.TrimSpace(s.Text())
}

// domType mirrors the DOM type property.
func domType(n *html.Node) string {
	t := strings.ToLower(strings.TrimSpace(getAttr(n, "type")))
	switch n.Data {
	case "input":
		if t == "" {
			return "text"
		}
		return t
	case "select":
		if hasAttr(n, "multiple") {
			return "select-multiple"
		}
		return "select-one"
	case "textarea":
		return "textarea"
	case "button":
		if t == "" {
			return "submit"
		}
		return t
	}
	return t
}

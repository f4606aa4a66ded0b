// Package memdom is an in-memory dom.Document parsed from HTML.
//
// It emulates the parts of a browser the autofill engine depends on:
// computed visibility from inline styles and the hidden attribute, radio
// group exclusivity, select option resolution, and a framework-style value
// tracker on elements marked data-framework. Scripted behaviour is declared
// with attributes:
//
//	data-framework        value tracker: only changes made through the
//	                      native setter are observed on the next input event
//	data-opens="SEL"      click shows every element matching SEL
//	data-picks="ID"       click assigns the trimmed text to the element with
//	                      id ID and hides the closest [data-popup] ancestor
//	data-throws           State fails
//	data-mutate-throws    every mutation fails
//	data-click-throws     Click fails
//
// Every click and dispatched event is recorded in order.
package memdom

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

// Event is one recorded click or dispatched event.
type Event struct {
	Target string
	Type   string
}

// Change is a value change observed by a framework tracker.
type Change struct {
	Target string
	Value  string
}

// Document is a parsed HTML page with live control state.
type Document struct {
	doc     *goquery.Document
	nodes   map[*html.Node]*Element
	events  []Event
	changes []Change
}

var _ dom.Document = (*Document)(nil)

// Parse builds a Document from HTML source.
func Parse(src string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{
		doc:   doc,
		nodes: make(map[*html.Node]*Element),
	}, nil
}

// MustParse is Parse for fixtures; it panics on error.
func MustParse(src string) *Document {
	d, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return d
}

// Controls returns every input, select and textarea in document order.
func (d *Document) Controls(ctx context.Context) ([]dom.Element, error) {
	return d.QueryAll(ctx, "input, select, textarea")
}

// QueryAll returns every element matching selector in document order.
// An invalid selector matches nothing.
func (d *Document) QueryAll(_ context.Context, selector string) ([]dom.Element, error) {
	return d.wrap(d.doc.Find(selector).Nodes), nil
}

// Find returns the first element matching selector, or nil.
func (d *Document) Find(selector string) *Element {
	nodes := d.doc.Find(selector).Nodes
	if len(nodes) == 0 {
		return nil
	}
	return d.element(nodes[0])
}

// ByID returns the element with the given id, or nil.
func (d *Document) ByID(id string) *Element {
	return d.Find("#" + id)
}

// SetStyle sets one inline style property on every element matching selector.
func (d *Document) SetStyle(selector, property, value string) {
	for _, n := range d.doc.Find(selector).Nodes {
		setStyleProperty(n, property, value)
	}
}

// Events returns the recorded clicks and events in order.
func (d *Document) Events() []Event {
	out := make([]Event, len(d.events))
	copy(out, d.events)
	return out
}

// EventsFor returns the recorded event types for one target.
func (d *Document) EventsFor(target string) []string {
	var types []string
	for _, e := range d.events {
		if e.Target == target {
			types = append(types, e.Type)
		}
	}
	return types
}

// Changes returns the changes observed by framework trackers.
func (d *Document) Changes() []Change {
	out := make([]Change, len(d.changes))
	copy(out, d.changes)
	return out
}

// ResetLog clears recorded events and changes.
func (d *Document) ResetLog() {
	d.events = nil
	d.changes = nil
}

func (d *Document) wrap(nodes []*html.Node) []dom.Element {
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.element(n))
	}
	return out
}

func (d *Document) element(n *html.Node) *Element {
	if el, ok := d.nodes[n]; ok {
		return el
	}
	el := newElement(d, n)
	d.nodes[n] = el
	return el
}

func (d *Document) record(target, typ string) {
	d.events = append(d.events, Event{Target: target, Type: typ})
}

// formIndex returns the index of n's owning form among all forms.
func (d *Document) formIndex(n *html.Node) int {
	var owner *html.Node
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && p.Data == "form" {
			owner = p
			break
		}
	}
	if owner == nil {
		return dom.NoForm
	}
	for i, f := range d.doc.Find("form").Nodes {
		if f == owner {
			return i
		}
	}
	return dom.NoForm
}

// radioGroup returns the radios sharing n's name within the same form scope.
func (d *Document) radioGroup(n *html.Node) []*Element {
	name := getAttr(n, "name")
	if name == "" {
		return nil
	}
	form := d.formIndex(n)
	var group []*Element
	for _, m := range d.doc.Find(`input[type="radio"]`).Nodes {
		if getAttr(m, "name") == name && d.formIndex(m) == form {
			group = append(group, d.element(m))
		}
	}
	return group
}

// visible mirrors the element's computed style: display is read from the
// element alone, as it does not inherit, while visibility comes from the
// nearest element that sets it. A control inside a display:none container
// therefore still counts as visible.
func visible(n *html.Node) bool {
	if hasAttr(n, "hidden") || parseStyle(getAttr(n, "style"))["display"] == "none" {
		return false
	}
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if v, ok := parseStyle(getAttr(p, "style"))["visibility"]; ok {
			return v != "hidden" && v != "collapse"
		}
	}
	return true
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func parseStyle(style string) map[string]string {
	props := make(map[string]string)
	for _, decl := range strings.Split(style, ";") {
		key, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		props[strings.ToLower(strings.TrimSpace(key))] = strings.ToLower(strings.TrimSpace(val))
	}
	return props
}

func setStyleProperty(n *html.Node, property, value string) {
	props := parseStyle(getAttr(n, "style"))
	props[strings.ToLower(property)] = value

	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	decls := make([]string, 0, len(keys))
	for _, k := range keys {
		decls = append(decls, k+": "+props[k])
	}
	setAttr(n, "style", strings.Join(decls, "; "))
}

package autofill

import (
	"context"
	"fmt"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

// Kind is the logical kind of a control, which decides how it is encoded
// and written.
type Kind int

const (
	KindText Kind = iota
	KindTextarea
	KindSelect
	KindCheckbox
	KindRadio
	KindCombo
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindTextarea:
		return "textarea"
	case KindSelect:
		return "select"
	case KindCheckbox:
		return "checkbox"
	case KindRadio:
		return "radio"
	case KindCombo:
		return "combo"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// excludedTypes are input types that never hold user data worth keeping.
// Passwords are excluded so credentials are never captured.
var excludedTypes = map[string]bool{
	"hidden":   true,
	"button":   true,
	"submit":   true,
	"reset":    true,
	"file":     true,
	"image":    true,
	"password": true,
}

// Control is one eligible element with the state read during enumeration.
type Control struct {
	Element dom.Element
	State   dom.State
	Kind    Kind

	// Index is the position among eligible controls of the owning form, or
	// among all eligible controls of the document when there is no form. It
	// feeds the structural fallback key.
	Index int

	// Trigger opens the option list of a KindCombo control.
	Trigger dom.Element
}

// Enumerate lists the eligible controls of doc in document order. It is the
// single selection used by both Capture and Fill. Controls whose state
// cannot be read are skipped.
func (e *Engine) Enumerate(ctx context.Context, doc dom.Document) ([]Control, error) {
	if doc == nil {
		return nil, ErrNoDocument
	}
	elements, err := doc.Controls(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDocument, err)
	}

	controls := make([]Control, 0, len(elements))
	perForm := make(map[int]int)
	for _, el := range elements {
		st, err := el.State(ctx)
		if err != nil {
			e.log.Debugf("skipping unreadable control: %v", err)
			dom.Release(el)
			continue
		}
		c, ok := e.classify(ctx, el, st)
		if !ok {
			dom.Release(el)
			continue
		}
		if st.FormIndex == dom.NoForm {
			c.Index = len(controls)
		} else {
			c.Index = perForm[st.FormIndex]
			perForm[st.FormIndex]++
		}
		controls = append(controls, c)
	}
	return controls, nil
}

// release disposes the elements held by controls.
func release(controls []Control) {
	for _, c := range controls {
		dom.Release(c.Element)
		if c.Trigger != nil {
			dom.Release(c.Trigger)
		}
	}
}

// classify applies the selection predicate and assigns a Kind.
func (e *Engine) classify(ctx context.Context, el dom.Element, st dom.State) (Control, bool) {
	c := Control{Element: el, State: st}

	switch st.Tag {
	case "select":
		c.Kind = KindSelect
	case "textarea":
		c.Kind = KindTextarea
	case "input":
		switch st.Type {
		case "checkbox":
			c.Kind = KindCheckbox
		case "radio":
			c.Kind = KindRadio
		default:
			c.Kind = KindText
		}
	default:
		return c, false
	}

	if st.Disabled || excludedTypes[st.Type] || !st.Visible {
		return c, false
	}

	if st.ReadOnly {
		if st.Tag != "input" || c.Kind != KindText {
			return c, false
		}
		trigger := e.findTrigger(ctx, el)
		if trigger == nil {
			return c, false
		}
		c.Kind = KindCombo
		c.Trigger = trigger
	}
	return c, true
}

// findTrigger returns the highest priority trigger next to el, or nil.
func (e *Engine) findTrigger(ctx context.Context, el dom.Element) dom.Element {
	for _, rule := range e.rules.Triggers {
		related, err := el.Related(ctx, rule.Selector)
		if err != nil {
			e.log.Debugf("trigger lookup %q failed: %v", rule.Selector, err)
			continue
		}
		if len(related) > 0 {
			dom.Release(related[1:]...)
			return related[0]
		}
	}
	return nil
}

// Package dom defines the document accessor the autofill engine works against.
//
// The engine never touches a page directly. It receives a Document, reads
// Element state through it and mutates elements only through the operations
// declared here. Two implementations ship with the module:
//
//   - memdom: an in-memory document parsed from HTML, used as a test fixture
//   - pwdom: a live page driven through Playwright element handles
//
// Every value-setting operation is expected to be followed by an explicit
// Dispatch of EventInput and/or EventChange so that scripts observing the page
// see the mutation. Dispatch is part of the contract, not a side effect.
package dom

import "context"

// Notification events emitted after a mutation. Both bubble.
const (
	EventInput  = "input"
	EventChange = "change"
)

// Attributes read into State.Attrs.
const (
	AttrName        = "name"
	AttrID          = "id"
	AttrAriaLabel   = "aria-label"
	AttrPlaceholder = "placeholder"
	AttrTitle       = "title"
	AttrClass       = "class"
	AttrRole        = "role"
)

// StateAttrs lists every attribute a State carries.
var StateAttrs = []string{
	AttrName,
	AttrID,
	AttrAriaLabel,
	AttrPlaceholder,
	AttrTitle,
	AttrClass,
	AttrRole,
}

// NoForm is the FormIndex of an element without an owning form.
const NoForm = -1

// State is a point-in-time read of one element.
type State struct {
	// Tag is the lower-case tag name (input, select, textarea, div, ...)
	Tag string

	// Type is the lower-case DOM type property: "text", "checkbox",
	// "select-one", "textarea", ... Empty for elements without one.
	Type string

	// Attrs holds the attributes named in StateAttrs. Missing attributes
	// are absent or empty.
	Attrs map[string]string

	Disabled bool
	ReadOnly bool

	// Visible is false when the element's own computed style resolves to
	// display:none, or visibility is hidden or collapsed. Since display does
	// not inherit, a control inside a display:none container stays visible.
	Visible bool

	Value   string
	Checked bool

	// Text is the element's text content.
	Text string

	// FormIndex is the position of the owning form among all forms in the
	// document, or NoForm.
	FormIndex int
}

// Attr returns the named attribute or "".
func (s State) Attr(name string) string {
	if s.Attrs == nil {
		return ""
	}
	return s.Attrs[name]
}

// Element is a live reference to one element of a document.
type Element interface {
	// State reads the element's current state.
	State(ctx context.Context) (State, error)

	// SetValue assigns through the element's own value property, including
	// any override a UI framework installed on the instance.
	SetValue(ctx context.Context, value string) error

	// SetNativeValue assigns through the value setter of the base element
	// prototype, bypassing instance-level overrides so that framework
	// change detection sees the new value as foreign.
	SetNativeValue(ctx context.Context, value string) error

	// SetChecked assigns the checked state of a checkbox or radio.
	SetChecked(ctx context.Context, checked bool) error

	// Click activates the element the way a user click would.
	Click(ctx context.Context) error

	// Dispatch emits a bubbling event of the given type on the element.
	Dispatch(ctx context.Context, event string) error

	// Related returns the elements matching selector inside the element's
	// parent container, excluding the element itself. This covers siblings
	// and their descendants.
	Related(ctx context.Context, selector string) ([]Element, error)

	// QueryAll returns the descendants matching selector in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

// Disposer is implemented by elements that hold a resource in the page,
// such as a remote object handle.
type Disposer interface {
	Dispose() error
}

// Release disposes every element that implements Disposer. Dispose errors
// are dropped.
func Release(elements ...Element) {
	for _, el := range elements {
		if d, ok := el.(Disposer); ok {
			_ = d.Dispose()
		}
	}
}

// Document is the injected accessor over one page.
type Document interface {
	// Controls returns every input, select and textarea element in
	// document order. The result is computed fresh on every call.
	Controls(ctx context.Context) ([]Element, error)

	// QueryAll returns every element matching selector in document order.
	QueryAll(ctx context.Context, selector string) ([]Element, error)
}

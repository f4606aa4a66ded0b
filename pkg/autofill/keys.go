package autofill

import (
	"fmt"
	"strings"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

// keyAttrs are the identifying attributes, in priority order.
var keyAttrs = []string{
	dom.AttrName,
	dom.AttrID,
	dom.AttrAriaLabel,
	dom.AttrPlaceholder,
}

// DeriveKey returns the FieldKey of c. It is a pure function of the state
// and position read during enumeration.
//
// Attribute keys look like "input::name=email". Controls without any
// identifying attribute get a structural key such as
// "input::form0::idx2::type=text". The form index is -1 for controls
// outside any form; idx counts eligible controls of the owning form, or of
// the whole document for formless controls. Structural keys are only stable
// while the count and order of eligible controls stay the same.
//
// Same-named radios share one key on purpose. The key carries no form, so
// radio groups of the same name in different forms collapse into one entry
// and a fill checks the first matching member across all of them.
func DeriveKey(c Control) string {
	tag := c.State.Tag
	for _, attr := range keyAttrs {
		if v := strings.TrimSpace(c.State.Attr(attr)); v != "" {
			return fmt.Sprintf("%s::%s=%s", tag, attr, v)
		}
	}

	typ := c.State.Type
	if typ == "" {
		typ = tag
	}
	return fmt.Sprintf("%s::form%d::idx%d::type=%s", tag, c.State.FormIndex, c.Index, typ)
}

// IsStructuralKey reports whether key came from the positional fallback.
func IsStructuralKey(key string) bool {
	_, rest, ok := strings.Cut(key, "::")
	return ok && strings.HasPrefix(rest, "form")
}

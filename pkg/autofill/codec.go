package autofill

import (
	"context"
	"strings"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

// Encode returns the portable value of c. ok is false when the control
// contributes no entry, which is the case for unchecked radios.
func Encode(c Control) (value string, ok bool) {
	switch c.Kind {
	case KindSelect:
		return c.State.Value, true
	case KindCheckbox:
		return snapshot.Bool(c.State.Checked), true
	case KindRadio:
		if !c.State.Checked {
			return "", false
		}
		return c.State.Value, true
	case KindCombo:
		return comboText(c.State), true
	default:
		return c.State.Value, true
	}
}

// comboText is the displayed text of a combo: its value, else its title,
// else its text content.
func comboText(st dom.State) string {
	if v := strings.TrimSpace(st.Value); v != "" {
		return v
	}
	if v := strings.TrimSpace(st.Attr(dom.AttrTitle)); v != "" {
		return v
	}
	return strings.TrimSpace(st.Text)
}

// assignNative writes value through the base-prototype setter and emits
// input then change. This is the path framework-managed inputs need.
func assignNative(ctx context.Context, el dom.Element, value string) error {
	if err := el.SetNativeValue(ctx, value); err != nil {
		return err
	}
	return notify(ctx, el, dom.EventInput, dom.EventChange)
}

func notify(ctx context.Context, el dom.Element, events ...string) error {
	for _, ev := range events {
		if err := el.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	return nil
}

func writeSelect(ctx context.Context, c Control, value string) (bool, error) {
	if err := c.Element.SetValue(ctx, value); err != nil {
		return false, err
	}
	if err := notify(ctx, c.Element, dom.EventChange); err != nil {
		return false, err
	}
	return true, nil
}

// writeCheckbox counts as applied even when the state already matched.
func writeCheckbox(ctx context.Context, c Control, value string) (bool, error) {
	want := value == snapshot.Checked
	if c.State.Checked == want {
		return true, nil
	}
	if err := c.Element.SetChecked(ctx, want); err != nil {
		return false, err
	}
	if err := notify(ctx, c.Element, dom.EventChange); err != nil {
		return false, err
	}
	return true, nil
}

// writeRadio checks the first group member whose value equals value.
func writeRadio(ctx context.Context, group []Control, value string) (bool, error) {
	for _, member := range group {
		if member.Kind != KindRadio || member.State.Value != value {
			continue
		}
		if err := member.Element.SetChecked(ctx, true); err != nil {
			return false, err
		}
		if err := notify(ctx, member.Element, dom.EventChange); err != nil {
			return false, err
		}
		return true, nil
	}
	return false, nil
}

// writeText only touches the control when the value differs.
func writeText(ctx context.Context, c Control, value string) (bool, error) {
	if c.State.Value == value {
		return true, nil
	}
	if err := assignNative(ctx, c.Element, value); err != nil {
		return false, err
	}
	return true, nil
}

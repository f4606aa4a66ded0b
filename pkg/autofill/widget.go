package autofill

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

var errNoOption = errors.New("no option matches")

// automate drives an arrow-combo: open the list, wait for it, pick the
// matching option and notify. Any miss or failure along the way falls back
// to assigning the value directly.
func (e *Engine) automate(ctx context.Context, doc dom.Document, c Control, value string) (bool, error) {
	err := e.selectOption(ctx, doc, c, value)
	if err == nil {
		return true, nil
	}
	e.log.Debugf("combo automation fell back to direct assignment: %v", err)

	// Cancellation must not block the fallback write.
	if err := assignNative(context.WithoutCancel(ctx), c.Element, value); err != nil {
		return false, fmt.Errorf("fallback assignment: %w", err)
	}
	return true, nil
}

func (e *Engine) selectOption(ctx context.Context, doc dom.Document, c Control, value string) error {
	if c.Trigger == nil {
		return errors.New("combo has no trigger")
	}
	if err := c.Trigger.Click(ctx); err != nil {
		return fmt.Errorf("open: %w", err)
	}

	var container dom.Element
	err := Await(ctx, e.clock, e.pollInterval, e.waitTimeout, func() bool {
		container = e.findContainer(ctx, doc)
		return container != nil
	})
	if err != nil {
		return fmt.Errorf("wait for option list: %w", err)
	}
	defer dom.Release(container)

	candidates, err := container.QueryAll(ctx, e.rules.OptionSelector())
	if err != nil {
		return fmt.Errorf("list options: %w", err)
	}
	defer dom.Release(candidates...)

	option, err := matchOption(ctx, candidates, value)
	if err != nil {
		return err
	}
	if err := option.Click(ctx); err != nil {
		return fmt.Errorf("select: %w", err)
	}
	if err := e.clock.Sleep(ctx, e.settleDelay); err != nil {
		return fmt.Errorf("settle: %w", err)
	}
	return notify(ctx, c.Element, dom.EventInput, dom.EventChange)
}

// findContainer returns a visible option list, trying container rules in
// priority order. Within one rule the last visible match wins, since
// popups are usually appended at the end of the document.
func (e *Engine) findContainer(ctx context.Context, doc dom.Document) dom.Element {
	for _, rule := range e.rules.Containers {
		matches, err := doc.QueryAll(ctx, rule.Selector)
		if err != nil {
			e.log.Debugf("container lookup %q failed: %v", rule.Selector, err)
			continue
		}
		for i := len(matches) - 1; i >= 0; i-- {
			st, err := matches[i].State(ctx)
			if err == nil && st.Visible {
				dom.Release(matches[:i]...)
				dom.Release(matches[i+1:]...)
				return matches[i]
			}
		}
		dom.Release(matches...)
	}
	return nil
}

// matchOption finds the first candidate whose trimmed, case-folded text
// equals value, else the first whose text contains it.
func matchOption(ctx context.Context, candidates []dom.Element, value string) (dom.Element, error) {
	want := strings.ToLower(strings.TrimSpace(value))
	texts := make([]string, len(candidates))
	for i, cand := range candidates {
		st, err := cand.State(ctx)
		if err != nil {
			continue
		}
		texts[i] = strings.ToLower(strings.TrimSpace(st.Text))
		if texts[i] == want {
			return cand, nil
		}
	}

	if want != "" {
		for i, text := range texts {
			if strings.Contains(text, want) {
				return candidates[i], nil
			}
		}
	}
	return nil, fmt.Errorf("%w %q", errNoOption, value)
}

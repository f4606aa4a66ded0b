package autofill

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom/memdom"
	"github.com/Lenersebastian/sebov-autofill/pkg/snapshot"
)

func TestFillRoundTrip(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())

	source := parse(t, profileForm)
	want, err := e.Capture(ctx, source)
	require.NoError(t, err)

	// Same structure, different values.
	target := parse(t, `<form>
		<input name="first">
		<input aria-label="Last name" value="Byron">
		<input placeholder="City">
		<textarea name="bio"></textarea>
		<select name="lang"><option>go</option><option>rust</option></select>
		<input type="checkbox" name="news">
		<input type="checkbox" name="ads" checked>
		<input type="radio" name="plan" value="free" checked>
		<input type="radio" name="plan" value="pro">
		<input>
		<input type="password" name="pw">
	</form>`)

	filled, err := e.Fill(ctx, target, want)
	require.NoError(t, err)
	assert.Equal(t, len(want), filled)

	got, err := e.Capture(ctx, target)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, target.Find(`[name="pw"]`).Value(), "passwords are never written")
}

func TestFillIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, profileForm)

	snap := snapshot.FieldSnapshot{
		"input::name=first": "Grace",
		"input::name=news":  snapshot.Unchecked,
		"input::name=plan":  "free",
	}
	first, err := e.Fill(ctx, doc, snap)
	require.NoError(t, err)
	afterFirst, err := e.Capture(ctx, doc)
	require.NoError(t, err)

	doc.ResetLog()
	second, err := e.Fill(ctx, doc, snap)
	require.NoError(t, err)
	afterSecond, err := e.Capture(ctx, doc)
	require.NoError(t, err)

	assert.Equal(t, 3, first)
	assert.Equal(t, first, second)
	assert.Equal(t, afterFirst, afterSecond)
	assert.Empty(t, doc.EventsFor("first"), "unchanged text is not rewritten")
	assert.Empty(t, doc.EventsFor("news"), "matching checkbox is left alone")
}

func TestFillTextEventsAndFrameworkTracker(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, `<input name="email" data-framework value="old@x.y">`)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{"input::name=email": "new@x.y"})
	require.NoError(t, err)
	assert.Equal(t, 1, filled)

	assert.Equal(t, "new@x.y", doc.Find("input").Value())
	assert.Equal(t, []string{"input", "change"}, doc.EventsFor("email"))
	assert.Equal(t, []memdom.Change{{Target: "email", Value: "new@x.y"}}, doc.Changes())
}

func TestFillSelectAndCheckboxEvents(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, profileForm)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{
		"select::name=lang": "go",
		"input::name=ads":   snapshot.Checked,
		"input::name=news":  snapshot.Checked,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, filled, "a checkbox already in the wanted state still counts")

	assert.Equal(t, "go", doc.Find(`[name="lang"]`).Value())
	assert.Equal(t, []string{"change"}, doc.EventsFor("lang"))
	assert.True(t, doc.Find(`[name="ads"]`).Checked())
	assert.Equal(t, []string{"change"}, doc.EventsFor("ads"))
	assert.Empty(t, doc.EventsFor("news"))
}

func TestFillRadioGroup(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, `<form>
		<input type="radio" id="a" name="size" value="A">
		<input type="radio" id="b" name="size" value="B" checked>
		<input type="radio" id="c" name="size" value="C">
	</form>`)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{"input::name=size": "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.True(t, doc.ByID("a").Checked())
	assert.False(t, doc.ByID("b").Checked())
	assert.False(t, doc.ByID("c").Checked())
	assert.Equal(t, []string{"change"}, doc.EventsFor("a"))

	filled, err = e.Fill(ctx, doc, snapshot.FieldSnapshot{"input::name=size": "Z"})
	require.NoError(t, err)
	assert.Zero(t, filled, "no member matched")
	assert.True(t, doc.ByID("a").Checked())
}

func TestFillSameNamedRadiosAcrossForms(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, `
		<form><input type="radio" id="a1" name="size" value="A"><input type="radio" id="b1" name="size" value="B"></form>
		<form><input type="radio" id="a2" name="size" value="A" checked><input type="radio" id="b2" name="size" value="B"></form>`)

	snap, err := e.Capture(ctx, doc)
	require.NoError(t, err)
	assert.Equal(t, snapshot.FieldSnapshot{"input::name=size": "A"}, snap, "one key for both groups")

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{"input::name=size": "B"})
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.True(t, doc.ByID("b1").Checked(), "the first matching member wins")
	assert.False(t, doc.ByID("b2").Checked())
	assert.True(t, doc.ByID("a2").Checked())
}

func TestFillSkipsUnknownKeys(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, `<input name="q">`)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{
		"input::name=q":       "go",
		"input::name=missing": "x",
		"select::name=q":      "wrong tag",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "go", doc.Find("input").Value())
}

func TestFillLogsMissingStructuralKey(t *testing.T) {
	ctx := context.Background()
	e, log := newTestEngine(newFakeClock())
	doc := parse(t, `<form><input></form>`)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{
		"input::form0::idx3::type=text": "gone",
		"input::name=missing":           "x",
	})
	require.NoError(t, err)
	assert.Zero(t, filled)
	assert.Contains(t, log.debug, "no control at input::form0::idx3::type=text; the page layout may have changed")
	for _, line := range log.debug {
		assert.NotContains(t, line, "input::name=missing")
	}
}

func TestFillEmptySnapshot(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, profileForm)

	filled, err := e.Fill(ctx, doc, nil)
	require.NoError(t, err)
	assert.Zero(t, filled)
	assert.Empty(t, doc.Events())
}

func TestFillContainsPerControlFailures(t *testing.T) {
	ctx := context.Background()
	e, log := newTestEngine(newFakeClock())
	doc := parse(t, `
		<input name="a">
		<input name="locked" data-mutate-throws>
		<input type="checkbox" name="box" data-mutate-throws>
		<input name="z">`)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{
		"input::name=a":      "1",
		"input::name=locked": "2",
		"input::name=box":    snapshot.Checked,
		"input::name=z":      "3",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
	assert.Equal(t, "1", doc.Find(`[name="a"]`).Value())
	assert.Equal(t, "3", doc.Find(`[name="z"]`).Value())
	assert.Len(t, log.warn, 2)
}

func TestFillAttributeKeysSurviveReordering(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, `<form><input name="b"><input name="a"></form>`)

	filled, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{"input::name=a": "1", "input::name=b": "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, filled)
	assert.Equal(t, "1", doc.Find(`[name="a"]`).Value())
	assert.Equal(t, "2", doc.Find(`[name="b"]`).Value())
}

func TestFillStructuralKeysFollowPosition(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())

	snap, err := e.Capture(ctx, parse(t, `<form><input value="kept"></form>`))
	require.NoError(t, err)
	require.Equal(t, snapshot.FieldSnapshot{"input::form0::idx0::type=text": "kept"}, snap)

	// A new unlabelled control inserted first takes over idx0.
	after := parse(t, `<form><input id="inserted"><input id="original"></form>`)
	filled, err := e.Fill(ctx, after, snap)
	require.NoError(t, err)
	assert.Equal(t, 1, filled)
	assert.Equal(t, "kept", after.ByID("inserted").Value())
	assert.Empty(t, after.ByID("original").Value())
}

func TestFillOrderIsSortedByKey(t *testing.T) {
	ctx := context.Background()
	e, _ := newTestEngine(newFakeClock())
	doc := parse(t, `<input name="c"><input name="a"><input name="b">`)

	_, err := e.Fill(ctx, doc, snapshot.FieldSnapshot{"input::name=c": "3", "input::name=a": "1", "input::name=b": "2"})
	require.NoError(t, err)

	var order []string
	for _, ev := range doc.Events() {
		if ev.Type == "change" {
			order = append(order, ev.Target)
		}
	}
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFillNoDocument(t *testing.T) {
	e, _ := newTestEngine(newFakeClock())
	_, err := e.Fill(context.Background(), nil, snapshot.FieldSnapshot{"x": "y"})
	assert.ErrorIs(t, err, ErrNoDocument)
}

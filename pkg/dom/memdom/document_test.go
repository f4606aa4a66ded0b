package memdom

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lenersebastian/sebov-autofill/pkg/dom"
)

func TestControlsInDocumentOrder(t *testing.T) {
	doc := MustParse(`<form><input name="a"><select name="b"></select></form><textarea name="c"></textarea><button>x</button>`)

	controls, err := doc.Controls(context.Background())
	require.NoError(t, err)
	require.Len(t, controls, 3)

	var tags []string
	for _, c := range controls {
		st, err := c.State(context.Background())
		require.NoError(t, err)
		tags = append(tags, st.Tag)
	}
	assert.Equal(t, []string{"input", "select", "textarea"}, tags)
}

func TestStateReadsAttributesAndForm(t *testing.T) {
	doc := MustParse(`<form></form><form>
		<input id="x" name="n" aria-label="L" placeholder="P" title="T" class="c" role="combobox" data-other="ignored" value="v" readonly disabled>
	</form>`)

	st, err := doc.ByID("x").State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "input", st.Tag)
	assert.Equal(t, "text", st.Type)
	assert.Equal(t, map[string]string{
		"name": "n", "id": "x", "aria-label": "L", "placeholder": "P",
		"title": "T", "class": "c", "role": "combobox",
	}, st.Attrs)
	assert.True(t, st.ReadOnly)
	assert.True(t, st.Disabled)
	assert.True(t, st.Visible)
	assert.Equal(t, "v", st.Value)
	assert.Equal(t, 1, st.FormIndex)

	loose := MustParse(`<input id="y">`)
	st, err = loose.ByID("y").State(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dom.NoForm, st.FormIndex)
}

func TestInitialValues(t *testing.T) {
	doc := MustParse(`
		<input type="checkbox" id="cb">
		<input type="radio" id="rd" value="x" checked>
		<textarea id="ta">hello</textarea>
		<select id="s1"><option value="a">A</option><option value="b">B</option></select>
		<select id="s2"><option selected>one</option><option selected>two</option></select>
		<select id="s3"></select>`)

	assert.Equal(t, "on", doc.ByID("cb").Value())
	assert.False(t, doc.ByID("cb").Checked())
	assert.Equal(t, "x", doc.ByID("rd").Value())
	assert.True(t, doc.ByID("rd").Checked())
	assert.Equal(t, "hello", doc.ByID("ta").Value())
	assert.Equal(t, "a", doc.ByID("s1").Value())
	assert.Equal(t, "two", doc.ByID("s2").Value())
	assert.Equal(t, "", doc.ByID("s3").Value())
}

func TestVisibility(t *testing.T) {
	doc := MustParse(`
		<input id="plain">
		<input id="none" style="display:none">
		<div style="DISPLAY: None"><input id="nested"></div>
		<input id="attr" hidden>
		<div style="visibility: hidden"><input id="vis"><input id="override" style="visibility: visible"></div>
		<input id="collapse" style="visibility: collapse">`)

	want := map[string]bool{
		"plain": true, "none": false, "nested": true, "attr": false,
		"vis": false, "override": true, "collapse": false,
	}
	for id, visible := range want {
		st, err := doc.ByID(id).State(context.Background())
		require.NoError(t, err)
		assert.Equal(t, visible, st.Visible, id)
	}

	doc.SetStyle("#none", "display", "inline")
	st, _ := doc.ByID("none").State(context.Background())
	assert.True(t, st.Visible)
}

func TestVisibilityIgnoresHiddenAncestors(t *testing.T) {
	doc := MustParse(`
		<div style="display:none"><input id="tab2"></div>
		<div hidden><input id="tab3"></div>
		<input id="tab1">`)

	for _, id := range []string{"tab1", "tab2", "tab3"} {
		st, err := doc.ByID(id).State(context.Background())
		require.NoError(t, err)
		assert.True(t, st.Visible, "%s: display is read from the element itself", id)
	}
}

func TestSelectAssignmentResolvesOptions(t *testing.T) {
	ctx := context.Background()
	doc := MustParse(`<select id="s"><option value="a">A</option><option>Bee</option></select>`)
	s := doc.ByID("s")

	require.NoError(t, s.SetValue(ctx, "Bee"))
	assert.Equal(t, "Bee", s.Value())
	require.NoError(t, s.SetValue(ctx, "zzz"))
	assert.Equal(t, "", s.Value(), "unknown option clears the selection")
}

func TestRadioExclusivityIsScopedToForm(t *testing.T) {
	ctx := context.Background()
	doc := MustParse(`
		<form><input type="radio" name="r" id="a" checked><input type="radio" name="r" id="b"></form>
		<form><input type="radio" name="r" id="c" checked></form>`)

	require.NoError(t, doc.ByID("b").SetChecked(ctx, true))
	assert.False(t, doc.ByID("a").Checked())
	assert.True(t, doc.ByID("b").Checked())
	assert.True(t, doc.ByID("c").Checked())
}

func TestFrameworkTracker(t *testing.T) {
	ctx := context.Background()
	doc := MustParse(`<input id="f" data-framework value="start">`)
	f := doc.ByID("f")

	require.NoError(t, f.SetValue(ctx, "instance"))
	require.NoError(t, f.Dispatch(ctx, dom.EventInput))
	assert.Empty(t, doc.Changes(), "instance setter hides the change from the tracker")

	require.NoError(t, f.SetNativeValue(ctx, "native"))
	require.NoError(t, f.Dispatch(ctx, "focus"))
	assert.Empty(t, doc.Changes())
	require.NoError(t, f.Dispatch(ctx, dom.EventInput))
	require.NoError(t, f.Dispatch(ctx, dom.EventChange))
	assert.Equal(t, []Change{{Target: "f", Value: "native"}}, doc.Changes())

	assert.Equal(t, []string{"input", "focus", "input", "change"}, doc.EventsFor("f"))
	doc.ResetLog()
	assert.Empty(t, doc.Events())
	assert.Empty(t, doc.Changes())
}

func TestClickScripts(t *testing.T) {
	ctx := context.Background()
	doc := MustParse(`
		<input id="target" readonly>
		<button id="open" data-opens="#pop">v</button>
		<div id="pop" data-popup style="display:none"><ul><li id="pick" data-picks="target"> Choice </li></ul></div>`)

	require.NoError(t, doc.ByID("open").Click(ctx))
	st, _ := doc.ByID("pop").State(ctx)
	assert.True(t, st.Visible)

	require.NoError(t, doc.ByID("pick").Click(ctx))
	assert.Equal(t, "Choice", doc.ByID("target").Value())
	st, _ = doc.ByID("pop").State(ctx)
	assert.False(t, st.Visible)

	assert.Equal(t, []Event{{Target: "open", Type: "click"}, {Target: "pick", Type: "click"}}, doc.Events())
}

func TestFailureAttributes(t *testing.T) {
	ctx := context.Background()
	doc := MustParse(`<input id="r" data-throws><input id="m" data-mutate-throws><input id="c" data-click-throws>`)

	_, err := doc.ByID("r").State(ctx)
	assert.Error(t, err)
	assert.Error(t, doc.ByID("m").SetValue(ctx, "x"))
	assert.Error(t, doc.ByID("m").SetNativeValue(ctx, "x"))
	assert.Error(t, doc.ByID("m").SetChecked(ctx, true))
	assert.Error(t, doc.ByID("c").Click(ctx))
	assert.Empty(t, doc.Events())
}

func TestRelatedAndQueryAll(t *testing.T) {
	ctx := context.Background()
	doc := MustParse(`<div><input id="i" class="x"><span class="x"></span><b><i class="x"></i></b></div><span class="x"></span>`)

	related, err := doc.ByID("i").Related(ctx, ".x")
	require.NoError(t, err)
	assert.Len(t, related, 2, "siblings and their descendants, never the element itself")

	all, err := doc.QueryAll(ctx, ".x")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	assert.Nil(t, doc.Find(".missing"))
	assert.Same(t, doc.ByID("i"), doc.Find("input"), "elements keep their identity")
}

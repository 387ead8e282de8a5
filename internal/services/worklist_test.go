package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remoteindex/remoteindex/internal/sources"
)

func TestBuildWorklist(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ats := newFakeSource("greenhouse", true)
	feed := newFakeSource("remotive", false)
	registry := sources.NewRegistry(ats, feed)

	ts.seedDiscovered(t, "zebra", "greenhouse")
	ts.seedDiscovered(t, "acme", "greenhouse")
	// A company on a source with no registered adapter is skipped
	ts.seedDiscovered(t, "ghost", "workable")

	worklist, err := BuildWorklist(ts.ctx, ts.Stores.Companies, registry, nil)
	require.NoError(t, err)

	require.Equal(t, 3, worklist.Len())
	items := worklist.Items()
	assert.Equal(t, WorkItem{Source: "greenhouse", Company: "acme"}, items[0])
	assert.Equal(t, WorkItem{Source: "greenhouse", Company: "zebra"}, items[1])
	assert.Equal(t, WorkItem{Source: "remotive", Pseudo: true}, items[2])
}

func TestBuildWorklist_SourceFilter(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ats := newFakeSource("greenhouse", true)
	feed := newFakeSource("remotive", false)
	registry := sources.NewRegistry(ats, feed)

	ts.seedDiscovered(t, "acme", "greenhouse")

	worklist, err := BuildWorklist(ts.ctx, ts.Stores.Companies, registry, []string{"remotive"})
	require.NoError(t, err)

	require.Equal(t, 1, worklist.Len())
	assert.True(t, worklist.Items()[0].Pseudo)
}

func TestBuildWorklist_Deterministic(t *testing.T) {
	ts := NewTestSetup(t)
	defer ts.CleanUp()

	ats := newFakeSource("greenhouse", true)
	registry := sources.NewRegistry(ats)
	for _, slug := range []string{"delta", "alpha", "charlie", "bravo"} {
		ts.seedDiscovered(t, slug, "greenhouse")
	}

	first, err := BuildWorklist(ts.ctx, ts.Stores.Companies, registry, nil)
	require.NoError(t, err)
	second, err := BuildWorklist(ts.ctx, ts.Stores.Companies, registry, nil)
	require.NoError(t, err)

	assert.Equal(t, first.Items(), second.Items())
}

func TestWorklistWindow(t *testing.T) {
	w := &Worklist{items: []WorkItem{
		{Source: "s", Company: "a"},
		{Source: "s", Company: "b"},
		{Source: "s", Company: "c"},
		{Source: "s", Company: "d"},
		{Source: "s", Company: "e"},
		{Source: "s", Company: "f"},
		{Source: "s", Company: "g"},
	}}

	tests := []struct {
		name      string
		start     int
		size      int
		wantLen   int
		wantNext  int
		wantFirst string
	}{
		{name: "first window", start: 0, size: 5, wantLen: 5, wantNext: 5, wantFirst: "a"},
		{name: "tail window clamps and wraps", start: 5, size: 5, wantLen: 2, wantNext: 0, wantFirst: "f"},
		{name: "exact end wraps", start: 2, size: 5, wantLen: 5, wantNext: 0, wantFirst: "c"},
		{name: "stale cursor resets to start", start: 99, size: 5, wantLen: 5, wantNext: 5, wantFirst: "a"},
		{name: "negative cursor resets to start", start: -3, size: 5, wantLen: 5, wantNext: 5, wantFirst: "a"},
		{name: "window larger than list", start: 0, size: 50, wantLen: 7, wantNext: 0, wantFirst: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, next := w.Window(tt.start, tt.size)
			assert.Len(t, items, tt.wantLen)
			assert.Equal(t, tt.wantNext, next)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, items[0].Company)
			}
		})
	}
}

func TestWorklistWindow_Empty(t *testing.T) {
	w := &Worklist{}
	items, next := w.Window(0, 5)
	assert.Empty(t, items)
	assert.Zero(t, next)
}

func TestAdvanceCursor(t *testing.T) {
	assert.Equal(t, 5, advanceCursor(0, 5, 7))
	assert.Equal(t, 0, advanceCursor(5, 2, 7))
	assert.Equal(t, 0, advanceCursor(0, 7, 7))
	// Truncated tick keeps unstarted items ahead of the cursor
	assert.Equal(t, 3, advanceCursor(0, 3, 7))
	assert.Equal(t, 0, advanceCursor(0, 0, 0))
}

func TestWorkItemString(t *testing.T) {
	assert.Equal(t, "greenhouse/acme", WorkItem{Source: "greenhouse", Company: "acme"}.String())
	assert.Equal(t, "remotive (feed)", WorkItem{Source: "remotive", Pseudo: true}.String())
}

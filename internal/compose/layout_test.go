package compose

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSpec() PageSpec {
	return PageSpec{
		Width:        600,
		Height:       400,
		MarginTop:    50,
		MarginBottom: 50,
		MarginLeft:   40,
		MarginRight:  40,
	}
}

func TestLayoutSingleLine(t *testing.T) {
	l := NewLayout(testSpec())
	l.WriteWrapped("hello", TextStyle{Font: Helvetica, Size: 10})

	pages := l.Pages()
	require.Len(t, pages, 1)
	require.Len(t, pages[0].Spans, 1)
	assert.Equal(t, "hello", pages[0].Spans[0].Content)
	assert.Equal(t, 40.0, pages[0].Spans[0].X)
}

func TestLayoutPageCountMatchesCapacity(t *testing.T) {
	spec := testSpec()
	const size = 10.0
	lineHeight := size * 1.4

	// Enough short lines to exceed one page's vertical capacity.
	const total = 60
	text := strings.TrimSuffix(strings.Repeat("line\n", total), "\n")

	l := NewLayout(spec)
	l.WriteWrapped(text, TextStyle{Font: Helvetica, Size: size})
	pages := l.Pages()

	perPage := int(spec.UsableHeight() / lineHeight)
	want := int(math.Ceil(float64(total) / float64(perPage)))
	assert.Equal(t, want, len(pages))

	// Concatenating all pages' text in order reconstructs the line sequence.
	var got []string
	for _, p := range pages {
		for _, s := range p.Spans {
			got = append(got, s.Content)
		}
	}
	assert.Len(t, got, total)
	for _, line := range got {
		assert.Equal(t, "line", line)
	}
}

func TestLayoutNoSpanBelowBottomMargin(t *testing.T) {
	spec := testSpec()
	l := NewLayout(spec)
	for i := 0; i < 200; i++ {
		l.Text("x", TextStyle{Font: Helvetica, Size: 12})
	}
	for _, p := range l.Pages() {
		for _, s := range p.Spans {
			assert.GreaterOrEqual(t, s.Y, spec.MarginBottom)
			assert.LessOrEqual(t, s.Y, spec.Height-spec.MarginTop)
		}
	}
}

func TestLayoutBreakPage(t *testing.T) {
	l := NewLayout(testSpec())
	l.Text("a", TextStyle{Font: Helvetica, Size: 10})
	l.BreakPage()
	l.Text("b", TextStyle{Font: Helvetica, Size: 10})

	pages := l.Pages()
	require.Len(t, pages, 2)
	assert.Equal(t, "a", pages[0].Spans[0].Content)
	assert.Equal(t, "b", pages[1].Spans[0].Content)
}

func TestLayoutSpacerNeverBreaksPage(t *testing.T) {
	l := NewLayout(testSpec())
	l.Spacer(10000)
	pages := l.Pages()
	assert.Len(t, pages, 1)
}

func TestLayoutFinalPageFlushedWhenNotFull(t *testing.T) {
	l := NewLayout(testSpec())
	l.Text("only", TextStyle{Font: Helvetica, Size: 10})
	pages := l.Pages()
	require.Len(t, pages, 1)
	assert.Len(t, pages[0].Spans, 1)
}

func TestLayoutCenteredText(t *testing.T) {
	spec := testSpec()
	l := NewLayout(spec)
	l.Text("mid", TextStyle{Font: Helvetica, Size: 10, Center: true})
	pages := l.Pages()

	span := pages[0].Spans[0]
	wantX := (spec.Width - StringWidth("mid", Helvetica, 10)) / 2
	assert.InDelta(t, wantX, span.X, 0.01)
}

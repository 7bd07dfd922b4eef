package compose

import "math"

// PageSpec fixes the page geometry in points (1 point = 1/72 inch).
type PageSpec struct {
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// A4 is the default page geometry, matching the original document design.
var A4 = PageSpec{
	Width:        595.28,
	Height:       841.89,
	MarginTop:    56.7, // 20 mm
	MarginBottom: 56.7,
	MarginLeft:   28.35, // 10 mm
	MarginRight:  28.35,
}

// ContentWidth is the usable horizontal space between the margins.
func (p PageSpec) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// UsableHeight is the usable vertical space between the margins.
func (p PageSpec) UsableHeight() float64 {
	return p.Height - p.MarginTop - p.MarginBottom
}

// RGB is a color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// Common colors used by the document design.
var (
	Black     = RGB{0, 0, 0}
	HeaderInk = RGB{0, 0.2, 0.4}       // dark blue section headers
	LinkInk   = RGB{0, 0.4, 0.8}       // link line
	SoftGray  = RGB{0.31, 0.31, 0.31}  // contact lines
	RuleGray  = RGB{0.78, 0.78, 0.78}  // divider rules
	FootGray  = RGB{0.5, 0.5, 0.5}     // page-number footer
)

// TextSpan is one positioned run of text on a page. X and Y are PDF user
// space coordinates (origin bottom-left, Y is the text baseline).
type TextSpan struct {
	X, Y    float64
	Font    Font
	Size    float64
	Color   RGB
	Content string
}

// Rule is a horizontal line on the page.
type Rule struct {
	X1, Y, X2 float64
	Width     float64
	Color     RGB
}

// Page is an ordered sequence of positioned text spans and rules. Pages are
// write-once: the layout engine appends to the current page and never revisits
// an emitted one.
type Page struct {
	Spans []TextSpan
	Rules []Rule
}

// TextStyle bundles the font parameters for one line of laid-out text.
type TextStyle struct {
	Font       Font
	Size       float64
	LineHeight float64 // baseline-to-baseline distance; 0 means 1.4 * Size
	Color      RGB
	Indent     float64 // extra left offset inside the margin
	Center     bool
}

func (st TextStyle) lineHeight() float64 {
	if st.LineHeight > 0 {
		return st.LineHeight
	}
	return st.Size * 1.4
}

// Layout assigns lines to pages. It is a cursor-driven state machine: the
// current page starts at the top margin, each placed line advances the cursor
// by its line height, and a line that would cross the bottom margin closes the
// page and opens a new one. The final page is flushed by Pages even when not
// full.
type Layout struct {
	spec  PageSpec
	pages []Page
	cur   Page
	y     float64 // cursor: baseline position for the next line
	open  bool
}

// NewLayout returns a layout for the given page geometry with one page open.
func NewLayout(spec PageSpec) *Layout {
	l := &Layout{spec: spec}
	l.startPage()
	return l
}

func (l *Layout) startPage() {
	l.cur = Page{}
	l.y = l.spec.Height - l.spec.MarginTop
	l.open = true
}

func (l *Layout) closePage() {
	l.pages = append(l.pages, l.cur)
	l.open = false
}

// BreakPage forces a page break: subsequent lines go to a fresh page.
// Section boundaries use this when configured to start on a new page.
func (l *Layout) BreakPage() {
	l.closePage()
	l.startPage()
}

// ensure makes room for a block of the given height, breaking the page when
// the block would cross the bottom margin.
func (l *Layout) ensure(height float64) {
	if l.y-height < l.spec.MarginBottom {
		l.BreakPage()
	}
}

// Text places one already-wrapped line. The line must fit the content width;
// use WriteWrapped for arbitrary text.
func (l *Layout) Text(line string, st TextStyle) {
	lh := st.lineHeight()
	l.ensure(lh)
	l.y -= lh

	x := l.spec.MarginLeft + st.Indent
	if st.Center {
		x = (l.spec.Width - StringWidth(line, st.Font, st.Size)) / 2
	}
	if line != "" {
		l.cur.Spans = append(l.cur.Spans, TextSpan{
			X: x, Y: l.y, Font: st.Font, Size: st.Size, Color: st.Color, Content: line,
		})
	}
}

// WriteWrapped sanitizes text, wraps it to the content width minus the
// style's indent, and places every resulting line. No line is ever dropped:
// lines that do not fit the current page continue on the next one.
func (l *Layout) WriteWrapped(text string, st TextStyle) {
	maxWidth := l.spec.ContentWidth() - st.Indent
	sc := NewLineScanner(Sanitize(text), st.Font, st.Size, maxWidth)
	for sc.Scan() {
		l.Text(sc.Text(), st)
	}
}

// Rule draws a horizontal line across the content width at the cursor,
// then advances by gap.
func (l *Layout) Rule(color RGB, width, gap float64) {
	l.ensure(gap)
	l.cur.Rules = append(l.cur.Rules, Rule{
		X1:    l.spec.MarginLeft,
		Y:     l.y - 2,
		X2:    l.spec.Width - l.spec.MarginRight,
		Width: width,
		Color: color,
	})
	l.y -= gap
}

// Spacer advances the cursor by h without emitting content. A spacer never
// forces a page break; spacing at a page boundary is absorbed.
func (l *Layout) Spacer(h float64) {
	l.y = math.Max(l.y-h, l.spec.MarginBottom)
}

// Pages closes the current page and returns every laid-out page in order.
// The layout must not be used afterwards.
func (l *Layout) Pages() []Page {
	if l.open {
		l.closePage()
	}
	return l.pages
}

// Spec returns the page geometry the layout was created with.
func (l *Layout) Spec() PageSpec {
	return l.spec
}

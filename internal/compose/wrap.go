package compose

import "strings"

// LineScanner produces wrapped lines from a text run one at a time, in the
// manner of bufio.Scanner. Every line it emits measures at most the maximum
// width under the scanner's font metrics. Wrapping prefers word boundaries; a
// single token wider than the maximum on its own is force-split at rune
// boundaries so that no content ever overflows and no characters are dropped.
// Trailing whitespace is trimmed from each line. Empty input yields exactly
// one empty line.
//
// A scanner is consumed by iteration; create a new one to restart.
type LineScanner struct {
	font     Font
	size     float64
	maxWidth float64

	paragraphs []string // input split on newlines
	para       int      // index of the paragraph being consumed
	rest       string   // unconsumed tail of the current paragraph
	started    bool     // whether the current paragraph has emitted a line
	line       string
	done       bool
}

// NewLineScanner returns a scanner that wraps text to maxWidth points when
// set in font f at the given size. A non-positive maxWidth still makes
// progress: each line carries at least one rune.
func NewLineScanner(text string, f Font, size, maxWidth float64) *LineScanner {
	return &LineScanner{
		font:       f,
		size:       size,
		maxWidth:   maxWidth,
		paragraphs: strings.Split(text, "\n"),
	}
}

// Scan advances to the next wrapped line. It returns false once all input is
// consumed.
func (s *LineScanner) Scan() bool {
	if s.done {
		return false
	}

	for {
		if s.rest == "" && s.started {
			// Current paragraph fully consumed; move to the next.
			s.para++
			s.started = false
		}
		if s.para >= len(s.paragraphs) {
			s.done = true
			return false
		}
		if !s.started {
			s.rest = s.paragraphs[s.para]
			s.started = true
			if s.rest == "" {
				// A blank paragraph is one empty line, not zero lines.
				s.line = ""
				s.rest = ""
				s.para++
				s.started = false
				return true
			}
		}

		s.line, s.rest = s.nextLine(s.rest)
		return true
	}
}

// Text returns the line produced by the last call to Scan.
func (s *LineScanner) Text() string {
	return s.line
}

// nextLine takes the longest prefix of text that fits within maxWidth,
// breaking at a word boundary when possible and inside the first token when
// that token alone is too wide.
func (s *LineScanner) nextLine(text string) (line, rest string) {
	text = strings.TrimLeft(text, " ")
	if text == "" {
		return "", ""
	}

	if StringWidth(text, s.font, s.size) <= s.maxWidth {
		return strings.TrimRight(text, " "), ""
	}

	// Walk words greedily.
	var taken string
	remaining := text
	for {
		word, tail := splitWord(remaining)
		candidate := taken
		if candidate != "" {
			candidate += " "
		}
		candidate += word

		if StringWidth(candidate, s.font, s.size) <= s.maxWidth {
			taken = candidate
			remaining = tail
			if remaining == "" {
				return taken, ""
			}
			continue
		}

		if taken != "" {
			// The word starts the next line.
			return taken, remaining
		}

		// The first token alone exceeds the maximum width: force a split at
		// the widest rune prefix that fits, always taking at least one rune.
		head, tail2 := s.splitRunes(word)
		if tail2 != "" {
			if tail != "" {
				tail = tail2 + " " + tail
			} else {
				tail = tail2
			}
		}
		return head, tail
	}
}

// splitWord returns the first space-delimited token and the remainder.
func splitWord(text string) (word, rest string) {
	if i := strings.IndexByte(text, ' '); i >= 0 {
		return text[:i], strings.TrimLeft(text[i+1:], " ")
	}
	return text, ""
}

// splitRunes cuts word at the widest rune prefix that fits within maxWidth.
// At least one rune is always taken so the scanner makes progress even when
// maxWidth is narrower than a single glyph.
func (s *LineScanner) splitRunes(word string) (head, tail string) {
	runes := []rune(word)
	width := 0.0
	for i, r := range runes {
		width += float64(glyphWidth(s.font, r)) * s.size / 1000
		if width > s.maxWidth && i > 0 {
			return string(runes[:i]), string(runes[i:])
		}
	}
	return word, ""
}

// Wrap collects every line the scanner would produce. It is the convenience
// form used when laziness is not needed.
func Wrap(text string, f Font, size, maxWidth float64) []string {
	sc := NewLineScanner(text, f, size, maxWidth)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines
}

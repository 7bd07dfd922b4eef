// Package compose lays sanitized, wrapped text onto fixed-size pages and
// serializes the result as a PDF document.
package compose

import "strings"

// replacementRune substitutes any rune the rendering fonts cannot represent.
const replacementRune = '?'

// punctuationMap maps common "smart" punctuation to ASCII equivalents.
// Middle-dot variants become '*' because resumes use them as bullets.
// Invisible runes are written as escapes so the entries stay readable.
var punctuationMap = map[rune]string{
	'‐': "-",   // hyphen
	'‑': "-",   // non-breaking hyphen
	'‒': "-",   // figure dash
	'–': "-",   // en dash
	'—': "-",   // em dash
	'―': "-",   // horizontal bar
	'‘': "'",   // left single quote
	'’': "'",   // right single quote
	'‚': "'",   // single low quote
	'“': `"`,   // left double quote
	'”': `"`,   // right double quote
	'„': `"`,   // double low quote
	'•': "*",   // bullet
	'·': "*",   // middle dot
	'⋅': "*",   // dot operator
	'∙': "*",   // bullet operator
	'●': "*",   // black circle
	'▪': "*",   // black small square
	'…': "...", // ellipsis

	'\u00a0': " ", // no-break space
	'\u2007': " ", // figure space
	'\u202f': " ", // narrow no-break space
	'\u3000': " ", // ideographic space
	'\u00ad': "",  // soft hyphen
	'\u200b': "",  // zero-width space
	'\u200c': "",  // zero-width non-joiner
	'\u200d': "",  // zero-width joiner
	'\u2060': "",  // word joiner
	'\ufeff': "",  // BOM / zero-width no-break space
	'\ufffd': "?", // replacement character
}

// Sanitize restricts text to the character set the rendering fonts support:
// printable ASCII plus newline. Smart punctuation is mapped to ASCII
// equivalents, zero-width characters are stripped, and every remaining
// unsupported rune becomes '?'. Sanitize never fails and is idempotent:
// sanitizing already-sanitized text returns it unchanged.
func Sanitize(text string) string {
	if text == "" {
		return ""
	}

	var out strings.Builder
	out.Grow(len(text))

	for _, r := range text {
		switch {
		case r == '\n':
			out.WriteByte('\n')
		case r == '\r':
			// dropped; \r\n collapses to \n
		case r == '\t':
			out.WriteByte(' ')
		case r >= 32 && r <= 126:
			out.WriteRune(r)
		default:
			if repl, ok := punctuationMap[r]; ok {
				out.WriteString(repl)
			} else {
				out.WriteRune(replacementRune)
			}
		}
	}

	return out.String()
}

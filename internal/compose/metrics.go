package compose

// Font identifies one of the built-in Type1 fonts every PDF viewer ships.
// Using only built-in fonts keeps the emitter free of font embedding.
type Font int

// Built-in font constants.
const (
	Helvetica Font = iota
	HelveticaBold
	HelveticaOblique
)

// BaseName returns the PostScript base font name.
func (f Font) BaseName() string {
	switch f {
	case HelveticaBold:
		return "Helvetica-Bold"
	case HelveticaOblique:
		return "Helvetica-Oblique"
	default:
		return "Helvetica"
	}
}

// helveticaWidths holds glyph advance widths for ASCII 32..126 in 1/1000 of
// the font size, from the Adobe AFM files for Helvetica.
var helveticaWidths = [95]int{
	278, 278, 355, 556, 556, 889, 667, 191, 333, 333, // space ! " # $ % & ' ( )
	389, 584, 278, 333, 278, 278, 556, 556, 556, 556, // * + , - . / 0 1 2 3
	556, 556, 556, 556, 556, 556, 278, 278, 584, 584, // 4 5 6 7 8 9 : ; < =
	584, 556, 1015, 667, 667, 722, 722, 667, 611, 778, // > ? @ A B C D E F G
	722, 278, 500, 667, 556, 833, 722, 778, 667, 778, // H I J K L M N O P Q
	722, 667, 611, 722, 667, 944, 667, 667, 611, 278, // R S T U V W X Y Z [
	278, 278, 469, 556, 333, 556, 556, 500, 556, 556, // \ ] ^ _ ` a b c d e
	278, 556, 556, 222, 222, 500, 222, 833, 556, 556, // f g h i j k l m n o
	556, 556, 333, 500, 278, 556, 500, 722, 500, 500, // p q r s t u v w x y
	500, 334, 260, 334, 584, // z { | } ~
}

// helveticaBoldWidths is the Helvetica-Bold AFM table for ASCII 32..126.
// Helvetica-Oblique shares the regular widths.
var helveticaBoldWidths = [95]int{
	278, 333, 474, 556, 556, 889, 722, 238, 333, 333,
	389, 584, 278, 333, 278, 278, 556, 556, 556, 556,
	556, 556, 556, 556, 556, 556, 333, 333, 584, 584,
	584, 611, 975, 722, 722, 722, 722, 667, 611, 778,
	722, 278, 556, 722, 611, 833, 722, 778, 667, 778,
	722, 667, 611, 722, 667, 944, 667, 667, 611, 333,
	278, 333, 584, 556, 333, 556, 611, 556, 611, 556,
	333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
	611, 611, 389, 556, 333, 611, 556, 778, 556, 556,
	500, 389, 280, 389, 584,
}

// unknownGlyphWidth is charged for any rune outside the table. The sanitizer
// replaces such runes before rendering, so this only matters when measuring
// unsanitized input; charging a full em keeps the measurement conservative.
const unknownGlyphWidth = 1000

// glyphWidth returns the advance width of r in 1/1000 em.
func glyphWidth(f Font, r rune) int {
	if r < 32 || r > 126 {
		return unknownGlyphWidth
	}
	if f == HelveticaBold {
		return helveticaBoldWidths[r-32]
	}
	return helveticaWidths[r-32]
}

// StringWidth measures s in points when set in font f at the given size.
func StringWidth(s string, f Font, size float64) float64 {
	total := 0
	for _, r := range s {
		total += glyphWidth(f, r)
	}
	return float64(total) * size / 1000
}

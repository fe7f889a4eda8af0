package pyrograph

import "math"

// ellipsis is the single-rune truncation marker inserted mid-label.
const ellipsis = "…"

// fitText shortens a label to fit maxWidth pixels by cutting characters
// out of the middle and splicing in an ellipsis, keeping both the start
// and the end of the label visible. Labels that already fit pass through
// untouched; labels with no room for even one character on each side of
// the ellipsis collapse to the empty string (the caller skips drawing).
//
// Character budget is estimated from the average glyph width of the full
// string, so one measure call covers the whole label instead of one per
// candidate truncation. When the kept count is odd, the extra character
// goes to the head.
func fitText(s string, maxWidth float64, measure func(string) float64) string {
	if s == "" || maxWidth <= 0 {
		return ""
	}

	fullWidth := measure(s)
	if fullWidth <= maxWidth {
		return s
	}

	runes := []rune(s)
	avg := fullWidth / float64(len(runes))
	if avg <= 0 {
		return s
	}

	maxChars := math.Floor((maxWidth - measure(ellipsis)) / avg)
	half := (maxChars - 1) / 2
	if half <= 0 {
		return ""
	}

	head := int(math.Ceil(half))
	tail := int(math.Floor(half))
	if head+tail >= len(runes) {
		return s
	}

	return string(runes[:head]) + ellipsis + string(runes[len(runes)-tail:])
}

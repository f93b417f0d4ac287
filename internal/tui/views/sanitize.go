package views

import "strings"

// sanitizeForTerminal drops the emoji modifiers tcell cannot lay out:
// skin tones, zero width joiners and variation selectors. A modified
// emoji falls back to its base glyph.
func sanitizeForTerminal(s string) string {
	return strings.Map(func(r rune) rune {
		if isEmojiModifier(r) {
			return -1
		}
		return r
	}, s)
}

func isEmojiModifier(r rune) bool {
	switch {
	case r >= 0x1F3FB && r <= 0x1F3FF:
		return true
	case r == 0x200D:
		return true
	case r >= 0xFE00 && r <= 0xFE0F:
		return true
	case r >= 0xE0100 && r <= 0xE01EF:
		return true
	}
	return false
}

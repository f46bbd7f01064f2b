package textutil

// Clip returns at most maxLen runes of text.
func Clip(text string, maxLen int) string {
	if maxLen < 0 {
		maxLen = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return string(runes[:maxLen])
}

// Truncate clips text to maxLen runes and appends "..." when anything was cut.
func Truncate(text string, maxLen int) string {
	clipped := Clip(text, maxLen)
	if len(clipped) == len(text) {
		return text
	}
	return clipped + "..."
}

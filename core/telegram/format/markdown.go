// Package format escapes user-supplied text for Telegram parse modes.
package format

import "strings"

const markdownSpecials = "_*`["

// Markdown escapes text for the legacy Markdown parse mode.
func Markdown(text string) string {
	if !strings.ContainsAny(text, markdownSpecials) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range text {
		if strings.ContainsRune(markdownSpecials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

package video

import (
	"regexp"
	"strings"
)

const maxOverlayRunes = 60

var (
	dropChars  = strings.NewReplacer(`'`, "", `"`, "", ":", "", "[", "", "]", "", "!", "", "?", "", ".", "")
	spaceChars = strings.NewReplacer(",", " ", ";", " ", "\n", " ", "\r", " ")
	manySpaces = regexp.MustCompile(`\s+`)
)

// sanitizeOverlayText strips everything that would break the renderer's
// drawtext argument syntax and caps the length. Currency and percent signs
// are spelled out so they survive the filter grammar.
func sanitizeOverlayText(text string) string {
	text = strings.ReplaceAll(text, "$", "USD ")
	text = strings.ReplaceAll(text, "%", " percent")
	text = dropChars.Replace(text)
	text = spaceChars.Replace(text)
	text = manySpaces.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)

	runes := []rune(text)
	if len(runes) > maxOverlayRunes {
		text = string(runes[:maxOverlayRunes])
	}
	return text
}

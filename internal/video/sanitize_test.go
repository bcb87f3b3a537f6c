package video

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOverlayText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"currency", "Only $65 today", "Only USD 65 today"},
		{"percent", "Save 20% now", "Save 20 percent now"},
		{"quotes and punctuation", `"Don't wait!" [really?]`, "Dont wait really"},
		{"commas to spaces", "fast, simple; clean", "fast simple clean"},
		{"whitespace collapse", "a   b\n\nc", "a b c"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeOverlayText(tt.in))
		})
	}
}

func TestSanitizeOverlayTextCapsLength(t *testing.T) {
	long := strings.Repeat("word ", 40)
	got := sanitizeOverlayText(long)
	assert.LessOrEqual(t, len([]rune(got)), 60)
}

func TestSanitizeOverlayTextEmojiSafe(t *testing.T) {
	// rune-based cap must not split multibyte characters
	in := strings.Repeat("🔥", 70)
	got := sanitizeOverlayText(in)
	assert.Equal(t, 60, len([]rune(got)))
}

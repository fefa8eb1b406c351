package responder

import (
	"regexp"
	"strings"
)

// Replies are read aloud by TTS; any surviving markup character gets spoken
// literally ("asterisk buying asterisk"), so it all has to go.
var (
	markupChars = regexp.MustCompile("[*#_~`\\[\\]()>]")
	whitespace  = regexp.MustCompile(`\s+`)
)

// Scrub strips markup-like characters and collapses whitespace runs so the
// text is safe to hand to speech synthesis.
func Scrub(text string) string {
	cleaned := markupChars.ReplaceAllString(text, "")
	cleaned = whitespace.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

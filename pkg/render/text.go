package render

import (
	"bytes"
	"encoding/xml"
	"unicode/utf8"
)

const (
	fontWidthRatio = 0.85
	fontCharWidth  = 0.55
)

// EscapeXML escapes s for use in SVG text and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens label so it fits width at fontSize, marking the
// cut with "..".
func TruncateLabel(label string, width, fontSize float64) string {
	maxChars := int(width * fontWidthRatio / (fontSize * fontCharWidth))
	maxChars = max(maxChars, 3)
	if utf8.RuneCountInString(label) <= maxChars {
		return label
	}
	runes := []rune(label)
	return string(runes[:maxChars-2]) + ".."
}

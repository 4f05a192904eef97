package pipeline

import "strings"

// separators are trimmed between a label and its value.
const separators = " :-."

// Normalize cleans a value read from the result page. Runs of whitespace
// collapse to one space, and label is removed from the front of the text
// together with any separators that follow it, ignoring case. The label
// must end at a word boundary: the end of the text, a space or a separator.
// Text without the label is returned unchanged. Only when label is empty
// and the text contains a colon is the text after the first colon kept.
//
//	Normalize("Roll No.  101 ", "Roll No.")  // "101"
//	Normalize("SGPA ODD: 8.50", "SGPA ODD") // "8.50"
//	Normalize("NAMEETA ROY", "Name")         // "NAMEETA ROY"
//	Normalize("GPA : 7.1", "")              // "7.1"
func Normalize(raw, label string) string {
	text := strings.Join(strings.Fields(raw), " ")

	label = strings.Join(strings.Fields(label), " ")
	if label == "" {
		if _, after, found := strings.Cut(text, ":"); found {
			return strings.TrimSpace(after)
		}
		return text
	}

	if len(text) < len(label) || !strings.EqualFold(text[:len(label)], label) {
		return text
	}
	rest := text[len(label):]
	if rest != "" && !strings.ContainsRune(separators, rune(rest[0])) && !endsWithSeparator(label) {
		return text
	}
	return strings.TrimSpace(strings.TrimLeft(rest, separators))
}

// endsWithSeparator reports whether label already closes the word, as in
// "Roll No." followed directly by the value.
func endsWithSeparator(label string) bool {
	return strings.ContainsRune(separators, rune(label[len(label)-1]))
}

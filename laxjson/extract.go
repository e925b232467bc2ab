package laxjson

import (
	"regexp"
	"strings"
)

var (
	objectPattern = regexp.MustCompile(`(?s)\{.*\}`)
	pairPattern   = regexp.MustCompile(`"([\p{L}\p{N}_]+)":\s*"([^"]*)"`)
)

// ExtractObject returns the text from the first '{' to the last '}' of s.
// The capture is greedy: with several objects in s the result spans all of them.
func ExtractObject(s string) (string, bool) {
	loc := objectPattern.FindStringIndex(s)
	if loc == nil {
		return "", false
	}
	return s[loc[0]:loc[1]], true
}

// Pairs is the last-resort reader for text no decoder accepts. It turns quotes
// that are not between two word characters into double quotes (so apostrophes
// in words survive) and collects every "key": "value" pair it can find. Values
// are always strings; later keys overwrite earlier ones.
func Pairs(s string) map[string]any {
	out := make(map[string]any)
	for _, m := range pairPattern.FindAllStringSubmatch(normalizeQuotes(s), -1) {
		out[m[1]] = m[2]
	}
	return out
}

// DecodeToolInput decodes the object embedded in s, falling back to Pairs when
// strict-enough decoding fails. It reports an error only when neither produces
// anything.
func DecodeToolInput(s string) (map[string]any, error) {
	text, ok := ExtractObject(s)
	if !ok {
		return nil, &SyntaxError{Msg: "no JSON object found"}
	}
	obj, err := DecodeObject(text)
	if err == nil {
		return obj, nil
	}
	if pairs := Pairs(text); len(pairs) > 0 {
		return pairs, nil
	}
	return nil, err
}

func normalizeQuotes(s string) string {
	runes := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range runes {
		if r != '\'' {
			b.WriteRune(r)
			continue
		}
		prevWord := i > 0 && isWordRune(runes[i-1])
		nextWord := i+1 < len(runes) && isWordRune(runes[i+1])
		if prevWord && nextWord {
			b.WriteRune(r)
		} else {
			b.WriteRune('"')
		}
	}
	return b.String()
}

package naming

import (
	"strings"
	"unicode"
)

// RawPrefix marks an identifier escaped to avoid a reserved word.
// It never reaches a column name.
const RawPrefix = "r#"

// StripRaw removes the raw-identifier escape prefix, if any.
func StripRaw(ident string) string {
	return strings.TrimPrefix(ident, RawPrefix)
}

// Convert rewrites ident according to the convention c.
// The raw-identifier prefix is stripped first. Convert is total and
// idempotent: Convert(Convert(s, c), c) == Convert(s, c).
func Convert(ident string, c Convention) string {
	ident = StripRaw(ident)

	switch c {
	case Lower:
		return strings.ToLower(ident)
	case Upper:
		return strings.ToUpper(ident)
	case Snake:
		return joinWords(ident, "_", strings.ToLower)
	case ScreamingSnake:
		return joinWords(ident, "_", strings.ToUpper)
	case Kebab:
		return joinWords(ident, "-", strings.ToLower)
	case ScreamingKebab:
		return joinWords(ident, "-", strings.ToUpper)
	case Camel:
		return joinCapitalized(Words(ident), true)
	case Pascal:
		return joinCapitalized(Words(ident), false)
	default:
		return ident
	}
}

func joinWords(ident, sep string, fold func(string) string) string {
	words := Words(ident)
	for i, w := range words {
		words[i] = fold(w)
	}

	return strings.Join(words, sep)
}

// joinCapitalized joins words in camel or Pascal form. A one-letter word
// that follows another capitalized one-letter word is lowercased into it
// ("a_b_c" -> "aBc"), because Words would read "BC" back as one acronym.
func joinCapitalized(words []string, lowerFirst bool) string {
	out := make([]string, 0, len(words))

	for i, w := range words {
		if i == 0 && lowerFirst {
			out = append(out, strings.ToLower(w))
			continue
		}

		if n := len(out); n > 0 && isSingleUpper(out[n-1]) && isSingleLetter(w) {
			out[n-1] += strings.ToLower(w)
			continue
		}

		out = append(out, title(w))
	}

	return strings.Join(out, "")
}

func isSingleUpper(w string) bool {
	runes := []rune(w)
	return len(runes) == 1 && unicode.IsUpper(runes[0])
}

func isSingleLetter(w string) bool {
	runes := []rune(w)
	return len(runes) == 1 && unicode.IsLetter(runes[0])
}

// title uppercases the first rune and lowercases the rest.
func title(w string) string {
	runes := []rune(strings.ToLower(w))
	if len(runes) == 0 {
		return ""
	}

	runes[0] = unicode.ToUpper(runes[0])

	return string(runes)
}

// Words splits an identifier into words on separators and case boundaries.
// Examples:
//   - "OrderID" -> ["Order", "ID"]
//   - "customerName" -> ["customer", "Name"]
//   - "XMLParser" -> ["XML", "Parser"]
//   - "full_name" -> ["full", "name"]
func Words(s string) []string {
	if s == "" {
		return nil
	}

	var (
		words   []string
		current strings.Builder
	)

	runes := []rune(s)
	for i, r := range runes {
		if isSeparator(r) {
			if current.Len() > 0 {
				words = append(words, current.String())
				current.Reset()
			}

			continue
		}

		if i > 0 && startsWord(runes, i) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}

		current.WriteRune(r)
	}

	if current.Len() > 0 {
		words = append(words, current.String())
	}

	return words
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}

// startsWord reports whether a new word starts at position i.
func startsWord(runes []rune, i int) bool {
	r := runes[i]
	prev := runes[i-1]
	isUpper := unicode.IsUpper(r)
	isPrevUpper := unicode.IsUpper(prev)

	// "orderID": split before 'I'
	if isUpper && !isPrevUpper && !isSeparator(prev) {
		return true
	}

	// "XMLParser": split before 'P', the last capital of an acronym run
	hasNextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

	return isUpper && isPrevUpper && hasNextLower
}

package naming

import (
	"fmt"
	"strings"
)

// Convention is a naming convention applied to an identifier.
type Convention int

const (
	// None leaves identifiers untouched.
	None Convention = iota
	// Lower lowercases the whole identifier ("FullName" -> "fullname").
	Lower
	// Upper uppercases the whole identifier ("FullName" -> "FULLNAME").
	Upper
	// Snake joins lowercase words with underscores ("FullName" -> "full_name").
	Snake
	// ScreamingSnake joins uppercase words with underscores ("FullName" -> "FULL_NAME").
	ScreamingSnake
	// Camel is lower camel case ("FullName" -> "fullName").
	Camel
	// Pascal is upper camel case ("full_name" -> "FullName").
	Pascal
	// Kebab joins lowercase words with dashes ("FullName" -> "full-name").
	Kebab
	// ScreamingKebab joins uppercase words with dashes ("FullName" -> "FULL-NAME").
	ScreamingKebab
)

var conventionNames = map[Convention]string{
	Lower:          "lowercase",
	Upper:          "UPPERCASE",
	Snake:          "snake_case",
	ScreamingSnake: "SCREAMING_SNAKE_CASE",
	Camel:          "camelCase",
	Pascal:         "PascalCase",
	Kebab:          "kebab-case",
	ScreamingKebab: "SCREAMING-KEBAB-CASE",
}

// String returns the attribute spelling of the convention.
func (c Convention) String() string {
	if name, ok := conventionNames[c]; ok {
		return name
	}

	if c == None {
		return "none"
	}

	return "unknown"
}

// Parse maps an attribute spelling (e.g. "snake_case") to a Convention.
// Matching is exact, as the spelling itself demonstrates the convention.
func Parse(name string) (Convention, error) {
	for c, spelling := range conventionNames {
		if spelling == name {
			return c, nil
		}
	}

	return None, fmt.Errorf("unknown naming convention %q (expected one of %s)", name, strings.Join(Names(), ", "))
}

// Names returns the attribute spellings of all conventions in declaration order.
func Names() []string {
	out := make([]string, 0, len(conventionNames))
	for c := Lower; c <= ScreamingKebab; c++ {
		out = append(out, conventionNames[c])
	}

	return out
}

// Package language resolves BCP 47 codes to display names for prompts and
// guesses the source language of a subtitle file.
package language

import (
	"fmt"
	"strings"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Auto asks for the source language to be detected from the subtitles.
const Auto = "auto"

// Language is a parsed language tag with its English display name.
type Language struct {
	Tag  language.Tag
	Code string
	Name string
}

// IsZero reports whether l is unset.
func (l Language) IsZero() bool { return l.Code == "" }

func (l Language) String() string {
	if l.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s (%s)", l.Name, l.Code)
}

var namer = display.English.Tags()

// Lookup parses code as a BCP 47 tag ("ja", "zh-Hant", "pt-BR").
func Lookup(code string) (Language, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Language{}, fmt.Errorf("empty language code")
	}
	tag, err := language.Parse(code)
	if err != nil {
		return Language{}, fmt.Errorf("unsupported language %q: %w", code, err)
	}
	if tag == language.Und {
		return Language{}, fmt.Errorf("unsupported language %q", code)
	}
	name := namer.Name(tag)
	if name == "" {
		name = tag.String()
	}
	return Language{Tag: tag, Code: tag.String(), Name: name}, nil
}

// SameBase reports whether a and b share a base language, so "zh-Hans" and
// "zh-Hant" are not the same but "en" and "en-GB" are.
func SameBase(a, b Language) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	if a.Tag == b.Tag {
		return true
	}
	ab, _ := a.Tag.Base()
	bb, _ := b.Tag.Base()
	as, _ := a.Tag.Script()
	bs, _ := b.Tag.Script()
	return ab == bb && as == bs
}

// Detect votes over texts with whatlanggo and returns the most frequent
// language. ok is false when nothing could be identified.
func Detect(texts []string) (Language, bool) {
	votes := make(map[string]int)
	for _, t := range texts {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		code := whatlanggo.DetectLang(t).Iso6391()
		if code == "" {
			continue
		}
		votes[code]++
	}

	var top string
	var topCount int
	for code, n := range votes {
		if n > topCount || (n == topCount && code < top) {
			top, topCount = code, n
		}
	}
	if top == "" {
		return Language{}, false
	}
	l, err := Lookup(top)
	if err != nil {
		return Language{}, false
	}
	return l, true
}

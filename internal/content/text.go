// Package content turns the backend's free-form agent fields into display data.
package content

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Placeholder is the backend's "not available" marker.
const Placeholder = "na"

var (
	itemSeparator  = regexp.MustCompile(`[;\n]+`)
	numberedItem   = regexp.MustCompile(`^\d+\.\s*`)
	slugDisallowed = regexp.MustCompile(`[^\w\s-]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	escapedNewline = strings.NewReplacer(`\n`, "\n")
	itemTrimCutset = ",- \t\r\n"
)

// Unescape turns literal "\n" sequences stored by the backend into newlines.
func Unescape(s string) string {
	return escapedNewline.Replace(s)
}

// IsPlaceholder reports whether a field carries no content.
func IsPlaceholder(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "" || strings.EqualFold(trimmed, Placeholder)
}

// SplitItems splits a features/ROI field into list items: split on ';' or
// newlines, trim commas, dashes and whitespace from both ends, drop empties.
func SplitItems(s string) []string {
	if IsPlaceholder(s) {
		return []string{}
	}
	parts := itemSeparator.Split(Unescape(s), -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if item := strings.Trim(strings.TrimSpace(p), itemTrimCutset); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Sections is a features or ROI field split into scope bullets and numbered instructions.
type Sections struct {
	Scope        []string `json:"scope"`
	Instructions []string `json:"instructions"`
}

// ParseSections splits items into Scope and Instructions. Items starting with
// "N." are instructions and lose their number.
func ParseSections(s string) Sections {
	sec := Sections{Scope: []string{}, Instructions: []string{}}
	for _, item := range SplitItems(s) {
		if numberedItem.MatchString(item) {
			sec.Instructions = append(sec.Instructions, strings.TrimSpace(numberedItem.ReplaceAllString(item, "")))
			continue
		}
		sec.Scope = append(sec.Scope, item)
	}
	return sec
}

// Tags splits a comma-separated tag field.
func Tags(s string) []string {
	tags := []string{}
	if IsPlaceholder(s) {
		return tags
	}
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// Slug makes an agent name URL-friendly: special characters are removed and
// whitespace runs collapse to one space.
func Slug(name string) string {
	s := slugDisallowed.ReplaceAllString(strings.TrimSpace(name), "")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// Deslug title-cases each space-separated word.
func Deslug(slug string) string {
	words := strings.Split(slug, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = strings.ToUpper(string(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// Truncate shortens s to max runes and appends "..." when anything was cut.
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

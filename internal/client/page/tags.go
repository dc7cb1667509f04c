package page

import (
	"slices"
	"strings"
)

// DefaultSuggestions are offered while typing a tag.
var DefaultSuggestions = []string{
	"Solana Expert",
	"Web3 Expert",
	"DevRel",
	"Blockchain Developer",
	"Smart Contract Developer",
}

// TagInput owns the tag list while editing. Input is trimmed, empty input
// is ignored and so is a tag already present in any letter case.
type TagInput struct {
	tags        []string
	suggestions []string
}

func NewTagInput(tags []string) *TagInput {
	return &TagInput{tags: slices.Clone(tags), suggestions: DefaultSuggestions}
}

func (t *TagInput) index(tag string) int {
	return slices.IndexFunc(t.tags, func(s string) bool { return strings.EqualFold(s, tag) })
}

// Add appends tag and reports whether the list changed.
func (t *TagInput) Add(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || t.index(tag) >= 0 {
		return false
	}
	t.tags = append(t.tags, tag)
	return true
}

// Remove drops tag, matched case-insensitively.
func (t *TagInput) Remove(tag string) bool {
	i := t.index(strings.TrimSpace(tag))
	if i < 0 {
		return false
	}
	t.tags = slices.Delete(t.tags, i, i+1)
	return true
}

// Set replaces the list as given.
func (t *TagInput) Set(tags []string) {
	t.tags = slices.Clone(tags)
}

func (t *TagInput) Tags() []string {
	out := slices.Clone(t.tags)
	if out == nil {
		out = []string{}
	}
	return out
}

// Suggest lists suggestions that start with prefix (any case) and are not
// chosen yet. An empty prefix lists every remaining suggestion.
func (t *TagInput) Suggest(prefix string) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	var out []string
	for _, s := range t.suggestions {
		if t.index(s) >= 0 {
			continue
		}
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			out = append(out, s)
		}
	}
	return out
}

package util

import "sort"

// OrderedKeys returns the keys of m sorted ascending, for deterministic
// iteration over maps keyed by string (state names, production ids, etc).
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Alphabetized returns the elements of s sorted ascending.
func Alphabetized[E ~string](s ISet[E]) []E {
	el := s.Elements()
	sort.Slice(el, func(i, j int) bool { return el[i] < el[j] })
	return el
}

// ArticleFor returns "a" or "an" as appropriate for the given word, optionally
// capitalized, for use in "expected a FOO" style error messages.
func ArticleFor(word string, capital bool) string {
	article := "a"
	if len(word) > 0 {
		switch word[0] {
		case 'a', 'e', 'i', 'o', 'u', 'A', 'E', 'I', 'O', 'U':
			article = "an"
		}
	}
	if capital {
		return string(article[0]-('a'-'A')) + article[1:]
	}
	return article
}

// MakeTextList joins items into a human-readable comma list with a final
// "and", e.g. ["a", "b", "c"] -> "a, b, and c".
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " and " + items[1]
	}

	out := ""
	for i, it := range items {
		if i == len(items)-1 {
			out += "and " + it
		} else {
			out += it + ", "
		}
	}
	return out
}

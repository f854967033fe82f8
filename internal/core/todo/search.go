package todo

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"
)

// SearchMode selects how Query.Text is matched.
type SearchMode string

const (
	// SearchPlain is a case-insensitive substring match.
	SearchPlain SearchMode = "plain"
	// SearchRegex treats the text as a Go regular expression.
	SearchRegex SearchMode = "regex"
	// SearchFuzzy ranks items by fuzzy match score.
	SearchFuzzy SearchMode = "fuzzy"
)

// IsValid reports whether m is a supported mode. The empty mode means plain.
func (m SearchMode) IsValid() bool {
	switch m {
	case "", SearchPlain, SearchRegex, SearchFuzzy:
		return true
	default:
		return false
	}
}

// StatusFilter restricts results by status. "all" (or empty), "open", "done"
// and "failed" compare case-insensitively for equality. Anything else is a
// custom filter that keeps statuses containing it.
type StatusFilter string

// Matches reports whether status passes the filter.
func (f StatusFilter) Matches(status string) bool {
	switch strings.ToLower(string(f)) {
	case "", "all":
		return true
	case "open":
		return strings.EqualFold(status, StatusOpen)
	case "done":
		return strings.EqualFold(status, StatusDone)
	case "failed":
		return strings.EqualFold(status, StatusFailed)
	default:
		return strings.Contains(status, string(f))
	}
}

// Query describes a search over a list.
type Query struct {
	Text     string
	Mode     SearchMode
	Status   StatusFilter
	PathGlob string // doublestar pattern matched against unity_path or godot_path
}

// Search returns copies of the items matching q. Results are sorted by GUID,
// except in fuzzy mode where they are ordered by match score.
func (l *List) Search(q Query) ([]Entry, error) {
	if !q.Mode.IsValid() {
		return nil, &ParseError{Path: "mode", Err: fmt.Errorf("unknown search mode %q", q.Mode)}
	}
	if q.PathGlob != "" && !doublestar.ValidatePattern(q.PathGlob) {
		return nil, &ParseError{Path: "path_glob", Err: fmt.Errorf("invalid pattern %q", q.PathGlob)}
	}

	var candidates []Entry
	for _, e := range l.Entries() {
		if !q.Status.Matches(e.Item.StatusOrDefault()) {
			continue
		}
		if q.PathGlob != "" && !matchesGlob(q.PathGlob, e.Item) {
			continue
		}
		candidates = append(candidates, e)
	}

	if q.Text == "" {
		return cloneEntries(candidates), nil
	}

	switch q.Mode {
	case SearchRegex:
		re, err := regexp.Compile(q.Text)
		if err != nil {
			return nil, &ParseError{Path: "query", Err: err}
		}
		return filterEntries(candidates, func(e Entry) bool {
			return re.MatchString(haystack(e))
		}), nil

	case SearchFuzzy:
		data := make([]string, len(candidates))
		for i, e := range candidates {
			data[i] = fuzzyHaystack(e)
		}
		matches := fuzzy.Find(q.Text, data)
		results := make([]Entry, 0, len(matches))
		for _, m := range matches {
			e := candidates[m.Index]
			results = append(results, Entry{GUID: e.GUID, Item: e.Item.Clone()})
		}
		return results, nil

	default:
		needle := strings.ToLower(q.Text)
		return filterEntries(candidates, func(e Entry) bool {
			return strings.Contains(strings.ToLower(haystack(e)), needle)
		}), nil
	}
}

func matchesGlob(pattern string, item *Item) bool {
	for _, path := range []string{item.UnityPath, item.GodotPath} {
		if path == "" {
			continue
		}
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}

// haystack is the text plain and regex searches run against: the rendered
// line, the GUID and the item's YAML form.
func haystack(e Entry) string {
	var b strings.Builder
	b.WriteString(e.Item.String())
	b.WriteString("\nGUID:")
	b.WriteString(e.GUID)
	b.WriteString("\n")
	if data, err := yaml.Marshal(e.Item.Node()); err == nil {
		b.Write(data)
	}
	return b.String()
}

// fuzzyHaystack holds only the identifying fields of an item.
func fuzzyHaystack(e Entry) string {
	return strings.Join([]string{e.GUID, string(e.Item.Kind), e.Item.UnityPath, e.Item.GodotPath}, " ")
}

func filterEntries(entries []Entry, keep func(Entry) bool) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if keep(e) {
			out = append(out, Entry{GUID: e.GUID, Item: e.Item.Clone()})
		}
	}
	return out
}

func cloneEntries(entries []Entry) []Entry {
	return filterEntries(entries, func(Entry) bool { return true })
}

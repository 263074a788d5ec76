package dashboard

import (
	"sort"
	"strings"
)

const tagSep = ", "

// MergeTag adds name to a ", "-separated tag field. The result is sorted
// with empty entries dropped from the front. ok is false when name is
// already present, in which case field is returned unchanged.
func MergeTag(field, name string) (out string, ok bool) {
	tags := strings.Split(field, tagSep)
	for _, t := range tags {
		if t == name {
			return field, false
		}
	}
	tags = append(tags, name)
	sort.Strings(tags)
	for len(tags) > 0 && tags[0] == "" {
		tags = tags[1:]
	}
	return strings.Join(tags, tagSep), true
}

// AddTag merges name into the form's tag field.
func (s *Session) AddTag(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := MergeTag(s.form.Tags, name)
	s.form.Tags = out
	return ok
}

// SplitTags splits a tag field the way the backend does: on commas, with
// surrounding spaces removed.
func SplitTags(field string) []string {
	parts := strings.Split(field, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

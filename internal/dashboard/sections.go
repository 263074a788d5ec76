package dashboard

// Sections cycles through the dashboard's panels. The zero value has no
// panels; Next and Prev on it return "".
type Sections struct {
	names []string
	cur   int
}

func NewSections(names ...string) *Sections {
	return &Sections{names: append([]string(nil), names...)}
}

func (s *Sections) Current() string {
	if len(s.names) == 0 {
		return ""
	}
	return s.names[s.cur]
}

// Next moves forward, wrapping from the last panel to the first.
func (s *Sections) Next() string {
	if len(s.names) == 0 {
		return ""
	}
	s.cur = (s.cur + 1) % len(s.names)
	return s.names[s.cur]
}

// Prev moves back, wrapping from the first panel to the last.
func (s *Sections) Prev() string {
	if len(s.names) == 0 {
		return ""
	}
	s.cur = (s.cur - 1 + len(s.names)) % len(s.names)
	return s.names[s.cur]
}

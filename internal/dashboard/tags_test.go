package dashboard

import "testing"

func TestMergeTag(t *testing.T) {
	t.Parallel()
	tests := []struct {
		field, name string
		want        string
		added       bool
	}{
		{"", "English", "English", true},
		{"English", "Chill", "Chill, English", true},
		{"Chill, English", "English", "Chill, English", false},
		{"Zen, ", "Art", "Art, Zen", true},
		// Only ", " separates; a bare comma stays part of the tag.
		{"A,B", "C", "A,B, C", true},
	}
	for _, tt := range tests {
		got, added := MergeTag(tt.field, tt.name)
		if got != tt.want || added != tt.added {
			t.Fatalf("MergeTag(%q, %q) = %q, %v; want %q, %v", tt.field, tt.name, got, added, tt.want, tt.added)
		}
	}
}

func TestSessionAddTag(t *testing.T) {
	t.Parallel()
	s, _ := newTestSession(State{Channel: Channel{Tags: "English"}}, &fakeBackend{})
	if !s.AddTag("Casual") {
		t.Fatal("AddTag reported duplicate")
	}
	if s.AddTag("English") {
		t.Fatal("AddTag accepted a duplicate")
	}
	if got := s.Form().Tags; got != "Casual, English" {
		t.Fatalf("tags = %q", got)
	}
}

func TestSplitTags(t *testing.T) {
	t.Parallel()
	got := SplitTags("Casual ,English,  Speedrun")
	if len(got) != 3 || got[0] != "Casual" || got[1] != "English" || got[2] != "Speedrun" {
		t.Fatalf("SplitTags = %q", got)
	}
}

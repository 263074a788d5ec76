package schedule

import (
	"sort"
	"strings"
	"testing"
)

func TestTidy(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "empty", raw: "", want: ""},
		{name: "only spaces", raw: "   ", want: ""},
		{name: "bare hour", raw: "9", want: "09:00"},
		{name: "pm token", raw: "9 pm", want: "21:00"},
		{name: "pm suffix", raw: "9pm", want: "21:00"},
		{name: "comma separator", raw: "9:30,14", want: "09:30 14:00"},
		{name: "comma and space", raw: "9, 10", want: "09:00 10:00"},
		{name: "only first comma", raw: "9,10,11", want: "09:00"},
		{name: "no range check", raw: "25 13:99", want: "13:99 25:00"},
		{name: "single digit minute", raw: "7:5", want: "07:05"},
		{name: "midnight am", raw: "12am", want: "00:00"},
		{name: "noon pm", raw: "12pm", want: "12:00"},
		{name: "twelve thirty am token", raw: "12:30 am", want: "00:30"},
		{name: "ampm both set", raw: "2:30AMPM", want: "14:30"},
		{name: "case insensitive", raw: "3:15Pm", want: "15:15"},
		{name: "sorted", raw: "18:00 8 12:30", want: "08:00 12:30 18:00"},
		{name: "mixed modifiers", raw: "11 pm 1 am", want: "01:00 23:00"},
		{name: "garbage dropped", raw: "noon 10 later", want: "10:00"},
		{name: "three digit hour dropped", raw: "123", want: ""},
		{name: "pm overflow keeps last two digits", raw: "99pm", want: "11:00"},
		{name: "leading modifier ignored", raw: "pm 9", want: "09:00"},
		// The gap between the two spaces is consumed as a no-op modifier,
		// so "pm" never reaches "9".
		{name: "double space pm not applied", raw: "9  pm", want: "09:00"},
		// An empty token after 12:xx acts like "am".
		{name: "trailing space after twelve", raw: "12:30 ", want: "00:30"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Tidy(tt.raw); got != tt.want {
				t.Fatalf("Tidy(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestTidyIdempotentAndSorted(t *testing.T) {
	t.Parallel()
	inputs := []string{
		"9 pm", "9:30,14", "25 13:99", "18:00 8 12:30", "1am 2am 3pm",
		"23:59 00:00 12:00", "7:5, 7:05", "11 pm 1 am", "0:0 0 00:00",
	}
	for _, raw := range inputs {
		once := Tidy(raw)
		if twice := Tidy(once); twice != once {
			t.Fatalf("Tidy not idempotent for %q: %q then %q", raw, once, twice)
		}
		if once == "" {
			continue
		}
		toks := strings.Split(once, " ")
		if !sort.StringsAreSorted(toks) {
			t.Fatalf("Tidy(%q) = %q is not sorted", raw, once)
		}
		for _, tok := range toks {
			if len(tok) != 5 || tok[2] != ':' {
				t.Fatalf("Tidy(%q) produced non canonical token %q", raw, tok)
			}
		}
	}
}

func TestTidyKeepsDuplicates(t *testing.T) {
	t.Parallel()
	if got := Tidy("9 9:00"); got != "09:00 09:00" {
		t.Fatalf("Tidy duplicates = %q", got)
	}
}

func TestPad2(t *testing.T) {
	t.Parallel()
	for n, want := range map[int]string{0: "00", 7: "07", 21: "21", 111: "11"} {
		if got := pad2(n); got != want {
			t.Fatalf("pad2(%d) = %q, want %q", n, got, want)
		}
	}
}

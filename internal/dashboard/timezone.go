package dashboard

import "fmt"

// ResolveTimezone picks the schedule timezone. With nothing saved the
// operator's local zone is used; a saved zone that differs from local
// comes back with a note for the operator.
func ResolveTimezone(saved, local string) (tz, note string) {
	if saved == "" {
		return local, ""
	}
	if local != "" && saved != local {
		note = fmt.Sprintf("(Your browser's preferred timezone is: %s)", local)
	}
	return saved, note
}

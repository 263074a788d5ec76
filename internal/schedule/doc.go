// Package schedule holds the weekly posting schedule and the clock math around it.
//
// It is responsible only for:
//   - tidying free-form time input into canonical "HH:MM" lists (Tidy)
//   - computing the next scheduled occurrence relative to now and an offset (Clock)
//   - rendering that occurrence for display (FormatOccurrence)
//
// Everything here is synchronous and keeps no state between calls; the
// caller owns the Schedule value.
package schedule

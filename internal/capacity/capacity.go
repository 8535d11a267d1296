// Package capacity holds the open/closed decision for a show as a pure
// function of (now, show state, guest count, booking settings). The show
// service runs it both on-demand before capacity-affecting mutations and on
// the background sweep, so the two call sites can never disagree.
package capacity

import "time"

// Decision is the transition the caller should persist, if any.
type Decision int

const (
	NoChange Decision = iota
	Close
	Reopen
)

// CutoffAt returns the instant new bookings close ahead of the show.
func CutoffAt(startAt time.Time, cutoffHours int) time.Time {
	return startAt.Add(-time.Duration(cutoffHours) * time.Hour)
}

// PastCutoff reports whether the booking cutoff has been reached.
func PastCutoff(now, startAt time.Time, cutoffHours int) bool {
	return !now.Before(CutoffAt(startAt, cutoffHours))
}

// Decide returns the transition for a show given its current guest count.
//
// An open show closes when the guest count reaches the threshold or the
// cutoff has passed. A closed show reopens only while both conditions hold:
// under the threshold and before the cutoff. Past the cutoff a show stays
// closed no matter how many guests cancel.
func Decide(now time.Time, isClosed bool, startAt time.Time, guestCount, threshold, cutoffHours int) Decision {
	pastCutoff := PastCutoff(now, startAt, cutoffHours)

	if !isClosed {
		if guestCount >= threshold || pastCutoff {
			return Close
		}

		return NoChange
	}

	if guestCount < threshold && !pastCutoff {
		return Reopen
	}

	return NoChange
}

// AvailableSpots is the remaining capacity, never negative.
func AvailableSpots(effectiveCapacity, guestCount int) int {
	if spots := effectiveCapacity - guestCount; spots > 0 {
		return spots
	}

	return 0
}

// CanManualReopen re-validates an admin toggle to "open" at the point of the
// toggle. Only the guest-count threshold blocks it; admins may override the
// cutoff.
func CanManualReopen(guestCount, threshold int) bool {
	return guestCount < threshold
}

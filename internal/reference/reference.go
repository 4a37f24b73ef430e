// Package reference implements the client reference codec shared by
// every payment channel. The redirect callback, the webhook and the
// status poll all correlate gateway events with local donations through
// this one encoding, so the logic lives in exactly one place.
package reference

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const prefix = "DON"

// shortIDLen is how many hex digits of the donation ID survive into the
// reference. Hubtel caps the clientReference field length, so the full
// 24-char ObjectID hex does not fit alongside the timestamp suffix.
const shortIDLen = 8

var pattern = regexp.MustCompile(`^DON-([0-9A-Za-z]+)-\d+$`)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Encode produces a gateway-facing client reference of the form
// DON-{shortID}-{timestampSuffix}. The timestamp suffix is the last 8
// digits of the current unix-millis clock, which keeps rapid repeated
// submissions for the same donor from colliding.
func Encode(donationID string) string {
	return encodeAt(donationID, time.Now())
}

func encodeAt(donationID string, now time.Time) string {
	millis := fmt.Sprintf("%d", now.UnixMilli())
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	return fmt.Sprintf("%s-%s-%s", prefix, ShortID(donationID), millis)
}

// ShortID derives the reversible prefix embedded in a reference: plain
// numeric IDs pass through verbatim, hex IDs (Mongo ObjectIDs, UUIDs)
// are truncated to their first 8 hex digits and upper-cased.
func ShortID(donationID string) string {
	id := strings.ReplaceAll(strings.TrimSpace(donationID), "-", "")
	if digitsOnly.MatchString(id) {
		return id
	}
	if len(id) > shortIDLen {
		id = id[:shortIDLen]
	}
	return strings.ToUpper(id)
}

// Decode extracts the shortID component from a reference, or returns ""
// when the input does not match the DON-{id}-{timestamp} shape. A failed
// decode is an expected, recoverable condition; callers route it to a
// reference-invalid outcome rather than treating it as an error.
func Decode(ref string) string {
	m := pattern.FindStringSubmatch(strings.TrimSpace(ref))
	if m == nil {
		return ""
	}
	return m[1]
}

// MatchesDonation reports whether a decoded shortID is consistent with
// the given donation ID. Lookup by stored reference is the canonical
// path; this is only the best-effort cross-check.
func MatchesDonation(shortID, donationID string) bool {
	return shortID != "" && strings.EqualFold(shortID, ShortID(donationID))
}

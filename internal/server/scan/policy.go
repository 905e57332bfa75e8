package scan

import (
	"errors"
	"time"
)

// Verdict strings reported to callers for the grant-with-caveat outcomes.
const (
	VerdictScanTimedOut    = "scan_timed_out"
	VerdictScanUnsupported = "scan_unsupported"
	VerdictScanFailed      = "scan_failed"
)

// Decision is the download access-control outcome for a verdict check.
//
// The asymmetry is deliberate: scanner limitations and timeouts fail open so
// a stuck scanner cannot block legitimate downloads forever, while storage
// errors and confirmed threats fail closed.
type Decision int

const (
	// Grant: a benign verdict is available.
	Grant Decision = iota
	// GrantTimedOut: still scanning past the deadline; released anyway.
	GrantTimedOut
	// GrantUnsupported: the scanner cannot evaluate this content type.
	GrantUnsupported
	// GrantFailed: the scanner errored; not a positive threat signal.
	GrantFailed
	// DenyInProgress: still scanning within the deadline; retry later.
	DenyInProgress
	// DenyMalicious: a scanner reported a threat.
	DenyMalicious
	// DenyNotFound: scan state could not be determined at all.
	DenyNotFound
)

func (d Decision) Granted() bool {
	switch d {
	case Grant, GrantTimedOut, GrantUnsupported, GrantFailed:
		return true
	}
	return false
}

// AgeFunc lazily fetches the scan-target object's age. It is only consulted
// when the verdict is still in progress, to avoid an extra storage call on
// every check.
type AgeFunc func() (time.Duration, error)

// Decide maps a CheckScanVerdict outcome to an access decision. verdictErr
// is nil for benign verdicts; otherwise it must be one of the taxonomy
// sentinels or a storage error. Any error that is not part of the taxonomy
// is treated as "object not found".
func Decide(verdictErr error, age AgeFunc, timeout time.Duration) Decision {
	switch {
	case verdictErr == nil:
		return Grant
	case errors.Is(verdictErr, ErrMaliciousContent):
		return DenyMalicious
	case errors.Is(verdictErr, ErrScanUnsupported):
		return GrantUnsupported
	case errors.Is(verdictErr, ErrScanFailed):
		return GrantFailed
	case errors.Is(verdictErr, ErrInProgress):
		elapsed, err := age()
		if err != nil {
			return DenyNotFound
		}
		if elapsed > timeout {
			return GrantTimedOut
		}
		return DenyInProgress
	default:
		return DenyNotFound
	}
}

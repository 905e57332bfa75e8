// Package scan interprets the malware-scan tags written to scan-target
// objects by two independent scanners and decides whether a download may be
// released.
//
// The state of a document is never persisted by this package: it is
// recomputed from a fresh tag snapshot on every check, so two concurrent
// reads during a tag write may legitimately observe different verdicts.
package scan

import (
	"errors"
	"fmt"
)

// Tag names written by the two scanners. When both tags are present the
// GuardDuty tag wins, regardless of which value is more alarming or more
// recent.
const (
	GuardDutyTagName = "GuardDutyMalwareScanStatus"
	AVStatusTagName  = "av-status"
)

// Verdict taxonomy sentinels. These are routine control flow, not faults:
// every call site that checks a verdict handles each of them explicitly.
var (
	ErrInProgress          = errors.New("content scanning is in progress")
	ErrMaliciousContent    = errors.New("malicious content detected")
	ErrScanUnsupported     = errors.New("scan unsupported for this content")
	ErrScanFailed          = errors.New("scan failed")
	ErrUnrecognizedVerdict = errors.New("unrecognized scan verdict")
)

// GuardDutyVerdict is the closed set of values the asynchronous bucket
// scanner writes to the GuardDutyMalwareScanStatus tag.
type GuardDutyVerdict string

const (
	GuardDutyNoThreatsFound GuardDutyVerdict = "NO_THREATS_FOUND"
	GuardDutyThreatsFound   GuardDutyVerdict = "THREATS_FOUND"
	GuardDutyUnsupported    GuardDutyVerdict = "UNSUPPORTED"
	GuardDutyAccessDenied   GuardDutyVerdict = "ACCESS_DENIED"
	GuardDutyFailed         GuardDutyVerdict = "FAILED"
)

// ParseGuardDutyVerdict rejects anything outside the closed enum rather than
// passing unknown strings through.
func ParseGuardDutyVerdict(s string) (GuardDutyVerdict, error) {
	switch v := GuardDutyVerdict(s); v {
	case GuardDutyNoThreatsFound, GuardDutyThreatsFound, GuardDutyUnsupported,
		GuardDutyAccessDenied, GuardDutyFailed:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s=%q", ErrUnrecognizedVerdict, GuardDutyTagName, s)
	}
}

// AVStatus is the closed set of values the inline scan-files call writes to
// the av-status tag.
type AVStatus string

const (
	AVInProgress   AVStatus = "in_progress"
	AVClean        AVStatus = "clean"
	AVSuspicious   AVStatus = "suspicious"
	AVMalicious    AVStatus = "malicious"
	AVError        AVStatus = "error"
	AVUnknown      AVStatus = "unknown"
	AVUnableToScan AVStatus = "unable_to_scan"
)

// ParseAVStatus rejects anything outside the closed enum.
func ParseAVStatus(s string) (AVStatus, error) {
	switch v := AVStatus(s); v {
	case AVInProgress, AVClean, AVSuspicious, AVMalicious, AVError, AVUnknown,
		AVUnableToScan:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s=%q", ErrUnrecognizedVerdict, AVStatusTagName, s)
	}
}

// Resolve reduces a tag snapshot to either a raw benign verdict string or
// one of the taxonomy sentinels. Precedence is fixed by tag name: a present
// GuardDuty tag is interpreted alone and the av-status tag is ignored.
// An absent av-status tag means the scan result is not available yet.
func Resolve(tags map[string]string) (string, error) {
	if raw, ok := tags[GuardDutyTagName]; ok {
		verdict, err := ParseGuardDutyVerdict(raw)
		if err != nil {
			return "", err
		}
		switch verdict {
		case GuardDutyThreatsFound:
			return "", ErrMaliciousContent
		case GuardDutyUnsupported:
			return "", ErrScanUnsupported
		case GuardDutyAccessDenied, GuardDutyFailed:
			return "", ErrScanFailed
		default:
			return string(verdict), nil
		}
	}

	raw, ok := tags[AVStatusTagName]
	if !ok {
		return "", ErrInProgress
	}
	status, err := ParseAVStatus(raw)
	if err != nil {
		return "", err
	}
	switch status {
	case AVInProgress:
		return "", ErrInProgress
	case AVSuspicious, AVMalicious:
		return "", ErrMaliciousContent
	case AVError, AVUnableToScan:
		return "", ErrScanFailed
	default:
		return string(status), nil
	}
}

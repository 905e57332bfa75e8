package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/server/scan"
)

// ScanTargetStore owns the unencrypted scan-target bucket. Objects written
// here exist solely to be inspected by external scanners, which attach their
// verdicts as object tags. This store never mutates a verdict the external
// bucket scanner wrote; the inline scanner only ever touches the av-status
// tag.
type ScanTargetStore struct {
	store ObjectStore
	now   func() time.Time
}

func NewScanTargetStore(store ObjectStore) *ScanTargetStore {
	return &ScanTargetStore{store: store, now: time.Now}
}

// Put writes the plaintext copy of an upload, tagged as in progress so a
// verdict check before any scanner has run reports scanning rather than a
// missing result.
func (s *ScanTargetStore) Put(ctx context.Context, serviceID, documentID uuid.UUID, body io.Reader, sendingMethod, mimeType string) error {
	key := DocumentKey(serviceID, documentID, sendingMethod)
	tags := map[string]string{scan.AVStatusTagName: string(scan.AVInProgress)}
	return s.store.Put(ctx, key, body, mimeType, tags, nil)
}

// UpdateAVStatus sets the av-status tag to the inline scanner's verdict.
// PutTags replaces the whole tag set, so the current tags are read first and
// the av-status entry merged in; a GuardDuty tag already on the object
// survives and precedence stays a read-time concern. Re-tagging with the
// same verdict is safe, so retried scan jobs are idempotent.
func (s *ScanTargetStore) UpdateAVStatus(ctx context.Context, serviceID, documentID uuid.UUID, sendingMethod string, status scan.AVStatus) error {
	key := DocumentKey(serviceID, documentID, sendingMethod)

	tags, err := s.store.GetTags(ctx, key)
	if err != nil {
		return err
	}
	tags[scan.AVStatusTagName] = string(status)
	return s.store.PutTags(ctx, key, tags)
}

// CheckScanVerdict re-reads the tag set and reduces it to either a raw
// benign verdict string or one of the scan taxonomy sentinels. A failure to
// read tags at all takes priority over verdict interpretation and surfaces
// as ErrStore, as does a tag value outside the closed verdict enums.
func (s *ScanTargetStore) CheckScanVerdict(ctx context.Context, serviceID, documentID uuid.UUID, sendingMethod string) (string, error) {
	key := DocumentKey(serviceID, documentID, sendingMethod)

	tags, err := s.store.GetTags(ctx, key)
	if err != nil {
		return "", err
	}

	verdict, err := scan.Resolve(tags)
	if err != nil {
		if errors.Is(err, scan.ErrUnrecognizedVerdict) {
			// fail closed: an unknown tag value is indistinguishable from
			// corruption
			return "", fmt.Errorf("%w: %v", ErrStore, err)
		}
		return "", err
	}
	return verdict, nil
}

// ObjectAgeSeconds reports how many whole seconds ago the scan-target object
// was last modified, from the backing store's last-modified timestamp.
func (s *ScanTargetStore) ObjectAgeSeconds(ctx context.Context, serviceID, documentID uuid.UUID, sendingMethod string) (int64, error) {
	age, err := s.Age(ctx, serviceID, documentID, sendingMethod)
	if err != nil {
		return 0, err
	}
	return int64(age / time.Second), nil
}

// Age returns the scan-target object's age as a duration.
func (s *ScanTargetStore) Age(ctx context.Context, serviceID, documentID uuid.UUID, sendingMethod string) (time.Duration, error) {
	key := DocumentKey(serviceID, documentID, sendingMethod)
	return s.store.Age(ctx, key, s.now())
}

// AgeFunc adapts Age to the lazy form the scan policy consumes.
func (s *ScanTargetStore) AgeFunc(ctx context.Context, serviceID, documentID uuid.UUID, sendingMethod string) scan.AgeFunc {
	return func() (time.Duration, error) {
		return s.Age(ctx, serviceID, documentID, sendingMethod)
	}
}

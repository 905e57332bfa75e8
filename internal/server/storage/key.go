package storage

import (
	"fmt"

	"github.com/cds-snc/notification-document-download-api/internal/common"
	"github.com/google/uuid"
)

// DocumentKey derives the storage key for a document. The same triple always
// yields the same key, in both buckets. Attach-origin documents live under a
// tmp/ prefix so their lifecycle policy can differ.
func DocumentKey(serviceID, documentID uuid.UUID, sendingMethod string) string {
	prefix := ""
	if sendingMethod == common.SendingMethodAttach {
		prefix = "tmp/"
	}
	return fmt.Sprintf("%s%s/%s", prefix, serviceID, documentID)
}

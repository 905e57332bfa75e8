package httpapi

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/b64x"
)

// DirectFileURL builds the long-form retrieval URL with dashed UUIDs. The
// decryption key travels in the query string, never in storage.
func DirectFileURL(scheme, hostname string, serviceID, documentID uuid.UUID, key []byte, sendingMethod string) string {
	u := fmt.Sprintf("%s://%s/services/%s/documents/%s?key=%s",
		scheme, hostname, serviceID, documentID, b64x.BytesToBase64(key))
	if sendingMethod != "" {
		u += "&sending_method=" + quoteQueryValue(sendingMethod)
	}
	return u
}

// APIDownloadURL builds the compact retrieval URL with 22-character base64
// UUIDs, fit for inclusion in message bodies. The filename parameter is
// omitted when empty.
func APIDownloadURL(scheme, hostname string, serviceID, documentID uuid.UUID, key []byte, filename string) string {
	u := fmt.Sprintf("%s://%s/d/%s/%s?key=%s",
		scheme, hostname, b64x.UUIDToBase64(serviceID), b64x.UUIDToBase64(documentID), b64x.BytesToBase64(key))
	if filename != "" {
		u += "&filename=" + quoteQueryValue(filename)
	}
	return u
}

// quoteQueryValue percent-encodes a query value, using %20 for spaces rather
// than +.
func quoteQueryValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

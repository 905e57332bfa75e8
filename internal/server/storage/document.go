package storage

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/cds-snc/notification-document-download-api/internal/cryptox"
)

// DocumentStore owns the encrypted primary documents bucket. Every object is
// written under a per-document 256-bit SSE-C key that is returned to the
// uploader and never persisted here; without it the object cannot be read
// back.
type DocumentStore struct {
	store ObjectStore
}

func NewDocumentStore(store ObjectStore) *DocumentStore {
	return &DocumentStore{store: store}
}

// PutResult carries the generated document ID and its one-time encryption
// key back to the upload handler.
type PutResult struct {
	DocumentID    uuid.UUID
	EncryptionKey []byte
}

// Put writes the document under a fresh ID and a fresh encryption key. The
// object is not tagged; scan verdicts live on the scan-target copy.
func (s *DocumentStore) Put(ctx context.Context, serviceID uuid.UUID, body io.Reader, sendingMethod, mimeType string) (*PutResult, error) {
	documentID := uuid.New()
	encryptionKey := cryptox.GenerateEncryptionKey()

	key := DocumentKey(serviceID, documentID, sendingMethod)
	if err := s.store.Put(ctx, key, body, mimeType, nil, encryptionKey); err != nil {
		return nil, err
	}

	return &PutResult{DocumentID: documentID, EncryptionKey: encryptionKey}, nil
}

// Get reads a document back with the caller-supplied decryption key. A wrong
// key, a missing object, and any other backing failure all surface as
// ErrStore. No scan-verdict check happens here; that is layered on top by
// the caller via ScanTargetStore.
func (s *DocumentStore) Get(ctx context.Context, serviceID, documentID uuid.UUID, decryptionKey []byte, sendingMethod string) (*Object, error) {
	key := DocumentKey(serviceID, documentID, sendingMethod)
	return s.store.Get(ctx, key, decryptionKey)
}

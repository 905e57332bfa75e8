package httpapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cds-snc/notification-document-download-api/internal/server/storage"
)

// fakeObjectStore is an in-memory storage.ObjectStore that enforces the
// SSE-C contract so wrong-key reads fail the way S3 does.
type fakeObjectStore struct {
	objects map[string]*fakeObject

	getTagsErr error
}

type fakeObject struct {
	data         []byte
	contentType  string
	tags         map[string]string
	sseKey       []byte
	lastModified time.Time
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: make(map[string]*fakeObject)}
}

func (f *fakeObjectStore) Put(ctx context.Context, key string, body io.Reader, contentType string, tags map[string]string, sseKey []byte) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: %v", storage.ErrStore, err)
	}
	obj := &fakeObject{
		data:         data,
		contentType:  contentType,
		tags:         map[string]string{},
		lastModified: time.Now(),
	}
	for k, v := range tags {
		obj.tags[k] = v
	}
	if sseKey != nil {
		obj.sseKey = bytes.Clone(sseKey)
	}
	f.objects[key] = obj
	return nil
}

func (f *fakeObjectStore) Get(ctx context.Context, key string, sseKey []byte) (*storage.Object, error) {
	obj, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: no such key %s", storage.ErrStore, key)
	}
	if !bytes.Equal(obj.sseKey, sseKey) {
		return nil, fmt.Errorf("%w: access denied", storage.ErrStore)
	}
	return &storage.Object{
		Body:        io.NopCloser(bytes.NewReader(obj.data)),
		ContentType: obj.contentType,
		Size:        int64(len(obj.data)),
	}, nil
}

func (f *fakeObjectStore) GetTags(ctx context.Context, key string) (map[string]string, error) {
	if f.getTagsErr != nil {
		return nil, f.getTagsErr
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: no such key %s", storage.ErrStore, key)
	}
	tags := make(map[string]string, len(obj.tags))
	for k, v := range obj.tags {
		tags[k] = v
	}
	return tags, nil
}

// PutTags replaces the whole tag set, matching S3's PutObjectTagging.
func (f *fakeObjectStore) PutTags(ctx context.Context, key string, tags map[string]string) error {
	obj, ok := f.objects[key]
	if !ok {
		return fmt.Errorf("%w: no such key %s", storage.ErrStore, key)
	}
	obj.tags = make(map[string]string, len(tags))
	for k, v := range tags {
		obj.tags[k] = v
	}
	return nil
}

func (f *fakeObjectStore) Age(ctx context.Context, key string, now time.Time) (time.Duration, error) {
	obj, ok := f.objects[key]
	if !ok {
		return 0, fmt.Errorf("%w: no such key %s", storage.ErrStore, key)
	}
	age := now.Sub(obj.lastModified)
	if age < 0 {
		age = 0
	}
	return age, nil
}

package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
)

// fakeObjectStore is an in-memory ObjectStore that enforces the SSE-C
// contract: an object written with a key can only be read back with the
// same key.
type fakeObjectStore struct {
	objects map[string]*fakeObject

	putErr     error
	getErr     error
	getTagsErr error
	putTagsErr error
	ageErr     error
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
	if f.putErr != nil {
		return f.putErr
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err)
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

func (f *fakeObjectStore) Get(ctx context.Context, key string, sseKey []byte) (*Object, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	obj, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("%w: no such key %s", ErrStore, key)
	}
	if !bytes.Equal(obj.sseKey, sseKey) {
		return nil, fmt.Errorf("%w: access denied", ErrStore)
	}
	return &Object{
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
		return nil, fmt.Errorf("%w: no such key %s", ErrStore, key)
	}
	tags := make(map[string]string, len(obj.tags))
	for k, v := range obj.tags {
		tags[k] = v
	}
	return tags, nil
}

// PutTags replaces the whole tag set, matching S3's PutObjectTagging.
func (f *fakeObjectStore) PutTags(ctx context.Context, key string, tags map[string]string) error {
	if f.putTagsErr != nil {
		return f.putTagsErr
	}
	obj, ok := f.objects[key]
	if !ok {
		return fmt.Errorf("%w: no such key %s", ErrStore, key)
	}
	obj.tags = make(map[string]string, len(tags))
	for k, v := range tags {
		obj.tags[k] = v
	}
	return nil
}

func (f *fakeObjectStore) Age(ctx context.Context, key string, now time.Time) (time.Duration, error) {
	if f.ageErr != nil {
		return 0, f.ageErr
	}
	obj, ok := f.objects[key]
	if !ok {
		return 0, fmt.Errorf("%w: no such key %s", ErrStore, key)
	}
	age := now.Sub(obj.lastModified)
	if age < 0 {
		age = 0
	}
	return age, nil
}

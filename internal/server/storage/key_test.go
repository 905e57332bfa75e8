package storage

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDocumentKey(t *testing.T) {
	serviceID := uuid.New()
	documentID := uuid.New()

	key := DocumentKey(serviceID, documentID, "link")
	assert.Equal(t, fmt.Sprintf("%s/%s", serviceID, documentID), key)
	assert.False(t, strings.HasPrefix(key, "tmp/"))
}

func TestDocumentKey_AttachUsesTmpPrefix(t *testing.T) {
	serviceID := uuid.New()
	documentID := uuid.New()

	key := DocumentKey(serviceID, documentID, "attach")
	assert.Equal(t, fmt.Sprintf("tmp/%s/%s", serviceID, documentID), key)
}

func TestDocumentKey_Deterministic(t *testing.T) {
	serviceID := uuid.New()
	documentID := uuid.New()

	assert.Equal(t,
		DocumentKey(serviceID, documentID, "link"),
		DocumentKey(serviceID, documentID, "link"),
	)
	assert.NotEqual(t,
		DocumentKey(serviceID, documentID, "link"),
		DocumentKey(serviceID, documentID, "attach"),
	)
}

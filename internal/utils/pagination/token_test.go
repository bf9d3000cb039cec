package pagination

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	entryDate := time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC)
	createdAt := time.Date(2024, 5, 15, 14, 30, 45, 123456789, time.UTC)

	token := EncodeToken(entryDate, createdAt)
	assert.NotEmpty(t, token)

	gotDate, gotCreatedAt, err := DecodeToken(token)
	assert.NoError(t, err)
	assert.Equal(t, entryDate, gotDate)
	assert.Equal(t, createdAt, gotCreatedAt)
}

func TestDecodeTokenError(t *testing.T) {
	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "base64 decode")

	// Valid base64 but missing the separator.
	_, _, err = DecodeToken("bm90LWEtdG9rZW4=")
	assert.Error(t, err)
}

package rocketmq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagJobEncodeDecode(t *testing.T) {
	job := TagJob{PhotoID: 1876543210987654321, ImageURL: "https://cdn.example.com/a.jpg"}
	body, err := job.Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"photo_id":"1876543210987654321","image_url":"https://cdn.example.com/a.jpg"}`, string(body))

	got, err := DecodeTagJob(body)
	require.NoError(t, err)
	assert.Equal(t, job, got)
}

func TestDecodeTagJobAcceptsNumericID(t *testing.T) {
	got, err := DecodeTagJob([]byte(`{"photo_id":42,"image_url":"u"}`))
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.PhotoID)
}

func TestDecodeTagJobRejects(t *testing.T) {
	for _, body := range []string{
		`not json`,
		`{"photo_id":"0","image_url":"u"}`,
		`{"photo_id":"7"}`,
		`{}`,
	} {
		_, err := DecodeTagJob([]byte(body))
		assert.ErrorIs(t, err, ErrInvalidJob, body)
	}
}

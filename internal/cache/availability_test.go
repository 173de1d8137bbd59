package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityKey(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	d := time.Date(2024, time.March, 9, 23, 30, 0, 0, loc)
	assert.Equal(t, "availability:2024-03-09", availabilityKey(d))
}

func TestEncodeDecodeHours(t *testing.T) {
	data, err := encodeHours(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	hours, err := decodeHours([]byte("[6,7,21]"))
	require.NoError(t, err)
	assert.Equal(t, []int{6, 7, 21}, hours)

	_, err = decodeHours([]byte("not json"))
	assert.Error(t, err)
}

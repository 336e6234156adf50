package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultLimit, NormalizeLimit(-5))
	assert.Equal(t, 10, NormalizeLimit(10))
	assert.Equal(t, MaxLimit, NormalizeLimit(MaxLimit+1))
}

func TestCursorRoundTrip(t *testing.T) {
	cursor := Cursor{
		CreatedAt: time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
		ID:        uuid.New(),
	}

	parsed, err := ParseCursor(EncodeCursor(cursor))
	require.NoError(t, err)
	require.NotNil(t, parsed)
	assert.True(t, cursor.CreatedAt.Equal(parsed.CreatedAt))
	assert.Equal(t, cursor.ID, parsed.ID)
}

func TestParseCursorEmpty(t *testing.T) {
	parsed, err := ParseCursor("   ")
	require.NoError(t, err)
	assert.Nil(t, parsed)
}

func TestParseCursorMalformed(t *testing.T) {
	_, err := ParseCursor("not-base64!!")
	assert.Error(t, err)
}

func TestBuildPage(t *testing.T) {
	last := Cursor{CreatedAt: time.Now(), ID: uuid.New()}

	page := BuildPage(11, 10, last)
	assert.True(t, page.HasMore)
	assert.NotEmpty(t, page.NextCursor)

	page = BuildPage(7, 10, last)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

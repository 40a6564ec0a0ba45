package pagination

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "123", CreatedAt: "2026-03-14T15:09:26.123456789Z"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	cursor, err := DecodeCursor(token)
	require.NoError(t, err)
	require.Equal(t, "123", cursor.ID)
	require.Equal(t, "2026-03-14T15:09:26.123456789Z", cursor.CreatedAt)
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, err := DecodeCursor("not-base64!!!")
	require.Error(t, err)
}

func TestBuildCursorPageInfo(t *testing.T) {
	type row struct{ ID string }
	extract := func(r *row) string { return r.ID }

	info := BuildCursorPageInfo([]*row{}, 2, extract)
	require.False(t, info.HasMore)

	// Exactly the page size: no next page.
	info = BuildCursorPageInfo([]*row{{ID: "a"}, {ID: "b"}}, 2, extract)
	require.False(t, info.HasMore)
	require.Equal(t, "b", info.NextPageToken)

	// One over the page size: next page, token points at the last visible row.
	info = BuildCursorPageInfo([]*row{{ID: "a"}, {ID: "b"}, {ID: "c"}}, 2, extract)
	require.True(t, info.HasMore)
	require.Equal(t, "b", info.NextPageToken)
}

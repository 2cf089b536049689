package feed

import (
	"encoding/json"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/require"

	"github.com/linkmark/api/bookmarks/models"
)

func TestChannelForIsPerOwner(t *testing.T) {
	a := uuid.Must(uuid.NewV4())
	b := uuid.Must(uuid.NewV4())

	require.Equal(t, "bookmarks:changes:"+a.String(), ChannelFor(a))
	require.NotEqual(t, ChannelFor(a), ChannelFor(b))
}

func TestChangeEventRoundTrip(t *testing.T) {
	event := ChangeEvent{
		Op: OpInsert,
		Record: models.Bookmark{
			ID:      uuid.Must(uuid.NewV4()),
			OwnerID: uuid.Must(uuid.NewV4()),
			Title:   "Docs",
			URL:     "https://example.com",
		},
	}

	payload, err := json.Marshal(event)
	require.NoError(t, err)
	require.Contains(t, string(payload), `"op":"insert"`)

	var decoded ChangeEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	require.Equal(t, event.Op, decoded.Op)
	require.Equal(t, event.Record.ID, decoded.Record.ID)
}

package client

import (
	"github.com/linkmark/api/bookmarks/models"
)

// Bookmark is a record as held by the session store. ClientID is the stable
// list-key identity: it equals the record id once confirmed, but survives the
// optimistic-to-real id swap for records this session created, so list
// rendering never remounts an item mid-confirmation.
type Bookmark struct {
	models.Bookmark
	ClientID string `json:"clientId"`
}

// Snapshot is a consistent copy of the session state for the view layer.
type Snapshot struct {
	Items         []Bookmark `json:"items"`
	QuickAccess   []Bookmark `json:"quickAccess"`
	TotalCount    int        `json:"totalCount"`
	CurrentPage   int        `json:"currentPage"`
	TotalPages    int        `json:"totalPages"`
	SearchQuery   string     `json:"searchQuery"`
	Loading       bool       `json:"loading"`
	Searching     bool       `json:"searching"`
	SwitchingPage bool       `json:"switchingPage"`
}

func wrap(b models.Bookmark) Bookmark {
	return Bookmark{Bookmark: b, ClientID: b.ID.String()}
}

func wrapAll(items []models.Bookmark) []Bookmark {
	out := make([]Bookmark, len(items))
	for i, b := range items {
		out[i] = wrap(b)
	}
	return out
}

package feed

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/bookmarks/models"
)

// Op is the kind of change carried by a ChangeEvent.
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent describes one committed change to an owner's bookmarks. Events
// are delivered in publish order per owner; consumers must tolerate receiving
// an event for a change they initiated themselves.
type ChangeEvent struct {
	Op     Op              `json:"op"`
	Record models.Bookmark `json:"record"`
}

// Publisher emits change events after successful writes.
type Publisher interface {
	Publish(ctx context.Context, event ChangeEvent) error
}

// Subscriber delivers the change stream for one owner. The returned cancel
// function tears the subscription down and closes the channel.
type Subscriber interface {
	Subscribe(ctx context.Context, ownerID uuid.UUID) (<-chan ChangeEvent, func(), error)
}

// ChannelFor returns the pub/sub channel name carrying one owner's changes.
func ChannelFor(ownerID uuid.UUID) string {
	return "bookmarks:changes:" + ownerID.String()
}

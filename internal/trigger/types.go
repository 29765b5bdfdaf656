// Package trigger provides the WordPress webhook event filter that decides whether an inbound call is
// forwarded downstream or acknowledged and ignored.
package trigger

import (
	"fmt"
	"slices"
)

// Event represents a WordPress webhook event name.
type Event string

const (
	// EventAny matches every incoming event.
	EventAny Event = "any"
	// EventCommentCreated is sent when a new comment is posted.
	EventCommentCreated Event = "comment_created"
	// EventPostDeleted is sent when a post is deleted.
	EventPostDeleted Event = "post_deleted"
	// EventPostPublished is sent when a post is published.
	EventPostPublished Event = "post_published"
	// EventPostUpdated is sent when a post is updated.
	EventPostUpdated Event = "post_updated"
	// EventUserRegistered is sent when a new user registers.
	EventUserRegistered Event = "user_registered"
	// EventUnknown is the resolved name of a request that carries no event name.
	EventUnknown Event = "unknown"
)

// Events lists the events a trigger can be registered for.
var Events = []Event{
	EventAny,
	EventCommentCreated,
	EventPostDeleted,
	EventPostPublished,
	EventPostUpdated,
	EventUserRegistered,
}

// PostStatus represents a WordPress post status.
type PostStatus string

const (
	PostStatusDraft   PostStatus = "draft"
	PostStatusFuture  PostStatus = "future"
	PostStatusPending PostStatus = "pending"
	PostStatusPrivate PostStatus = "private"
	PostStatusPublish PostStatus = "publish"
)

// PostStatuses lists the statuses accepted by the post-status filter.
var PostStatuses = []PostStatus{
	PostStatusDraft,
	PostStatusFuture,
	PostStatusPending,
	PostStatusPrivate,
	PostStatusPublish,
}

// Header names consumed from inbound WordPress webhook calls.
const (
	TokenHeader = "x-wp-webhook-token"
	EventHeader = "x-wp-webhook-event"
)

// Body field names inspected by the filter.
const (
	FieldEvent      = "event"
	FieldPostType   = "post_type"
	FieldPostStatus = "post_status"
	FieldReceivedAt = "receivedAt"
)

// Request is a snapshot of an inbound webhook call.
type Request struct {
	// Headers maps lower-cased header names to their first value.
	Headers map[string]string
	Body    Body
}

// Header returns the value of the given lower-case header and whether it was sent.
func (r Request) Header(name string) (string, bool) {
	v, found := r.Headers[name]
	return v, found
}

// Body is the semi-structured payload sent by WordPress. Lookups report presence explicitly so that an
// absent field can be told apart from a field carrying an empty value.
type Body map[string]any

// Lookup returns the raw value of key. A key holding JSON null counts as absent.
func (b Body) Lookup(key string) (any, bool) {
	v, found := b[key]
	if !found || v == nil {
		return nil, false
	}
	return v, true
}

// String returns the value of key rendered as a string. Non-string scalars are formatted with fmt so that
// a numeric post type still takes part in the comparison instead of silently matching.
func (b Body) String(key string) (string, bool) {
	v, found := b.Lookup(key)
	if !found {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return fmt.Sprint(v), true
}

// Clone returns a shallow copy of the body.
func (b Body) Clone() Body {
	out := make(Body, len(b)+2)
	for k, v := range b {
		out[k] = v
	}
	return out
}

// IsValidEvent reports whether e is one of the registrable events.
func IsValidEvent(e Event) bool {
	return slices.Contains(Events, e)
}

// IsValidPostStatus reports whether s is one of the filterable post statuses.
func IsValidPostStatus(s PostStatus) bool {
	return slices.Contains(PostStatuses, s)
}

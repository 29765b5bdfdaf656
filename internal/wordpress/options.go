package wordpress

import (
	"strings"

	"github.com/isometry/wp-trigger-app/internal/trigger"
)

var eventNames = map[trigger.Event]string{
	trigger.EventAny:            "Any Event",
	trigger.EventCommentCreated: "Comment Created",
	trigger.EventPostDeleted:    "Post Deleted",
	trigger.EventPostPublished:  "Post Published",
	trigger.EventPostUpdated:    "Post Updated",
	trigger.EventUserRegistered: "User Registered",
}

// TriggerEvents returns the events a trigger can listen for, in registration order.
func TriggerEvents() []Option {
	out := make([]Option, 0, len(trigger.Events))
	for _, e := range trigger.Events {
		out = append(out, Option{Name: eventNames[e], Value: string(e)})
	}
	return out
}

// PostStatuses returns the statuses selectable in the post-status filter.
func PostStatuses() []Option {
	out := make([]Option, 0, len(trigger.PostStatuses))
	for _, s := range trigger.PostStatuses {
		name := string(s)
		out = append(out, Option{Name: strings.ToUpper(name[:1]) + name[1:], Value: name})
	}
	return out
}

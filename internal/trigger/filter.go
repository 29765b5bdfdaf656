package trigger

import (
	"time"
)

// TimestampLayout is the layout of the receivedAt field: UTC with millisecond precision.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Filter evaluates requests against a trigger configuration. The zero value uses the wall clock.
type Filter struct {
	// Now returns the receipt time stamped on accepted events.
	Now func() time.Time
}

// Evaluate runs the filter gates using the wall clock.
func Evaluate(req Request, cfg Config) Outcome {
	return Filter{}.Evaluate(req, cfg)
}

// Evaluate runs the gates in order and returns the outcome of the first one that fails, or Accepted.
func (f Filter) Evaluate(req Request, cfg Config) Outcome {
	if cfg.TokenConfigured() {
		if token, found := req.Header(TokenHeader); !found || token != cfg.SecretToken {
			return unauthorized()
		}
	}

	incoming := ResolveEvent(req)

	if listensFor := cfg.ListensFor(); listensFor != EventAny && incoming != listensFor {
		return ignored(incoming, ReasonEventNotMatched, string(listensFor), string(incoming))
	}

	if cfg.PostTypeConfigured() {
		if postType, found := req.Body.String(FieldPostType); found && postType != cfg.PostTypeFilter {
			return ignored(incoming, ReasonPostTypeNotMatched, cfg.PostTypeFilter, postType)
		}
	}

	if cfg.PostStatusConfigured() {
		if status, found := req.Body.String(FieldPostStatus); found && !cfg.AllowsStatus(status) {
			return ignored(incoming, ReasonPostStatusNotMatched, cfg.allowedStatuses(), status)
		}
	}

	normalized := req.Body.Clone()
	normalized[FieldEvent] = string(incoming)
	normalized[FieldReceivedAt] = f.now().UTC().Format(TimestampLayout)

	return Outcome{
		Status:     Accepted,
		Event:      incoming,
		Normalized: normalized,
	}
}

// ResolveEvent derives the incoming event name from the body, then the event header, then EventUnknown.
// Empty names do not identify an event and fall through to the next source.
func ResolveEvent(req Request) Event {
	if v, found := req.Body.Lookup(FieldEvent); found {
		if s, ok := v.(string); ok && s != "" {
			return Event(s)
		}
	}
	if h, found := req.Header(EventHeader); found && h != "" {
		return Event(h)
	}
	return EventUnknown
}

func (f Filter) now() time.Time {
	if f.Now == nil {
		return time.Now()
	}
	return f.Now()
}

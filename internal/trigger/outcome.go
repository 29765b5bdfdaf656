package trigger

import (
	"log/slog"

	"github.com/pkg/errors"
)

// ErrAuthenticationFailed is reported when the secret token is configured and the request does not carry it.
var ErrAuthenticationFailed = errors.New("invalid webhook token")

// Status tags the kind of an Outcome.
type Status string

const (
	// Accepted means every gate passed and the normalized event should be forwarded.
	Accepted Status = "accepted"
	// Ignored means a filter gate did not match. It is an acknowledgment, not an error.
	Ignored Status = "ignored"
	// Unauthorized means the authentication gate rejected the request.
	Unauthorized Status = "unauthorized"
)

// Reasons reported with Ignored outcomes.
const (
	ReasonEventNotMatched      = "Event not matched"
	ReasonPostTypeNotMatched   = "Post type not matched"
	ReasonPostStatusNotMatched = "Post status not matched"
)

// Outcome is the result of evaluating one request.
type Outcome struct {
	Status Status

	// Reason, Expected and Received are set for Ignored outcomes.
	// Expected is a string for event and post-type mismatches and a []string for post-status mismatches.
	Reason   string
	Expected any
	Received string

	// Event is the resolved incoming event name. It is set for Ignored and Accepted outcomes.
	Event Event
	// Normalized is the body merged with the synthetic event and receivedAt fields. Set for Accepted outcomes.
	Normalized Body
}

// Err returns ErrAuthenticationFailed for Unauthorized outcomes and nil otherwise.
func (o Outcome) Err() error {
	if o.Status == Unauthorized {
		return ErrAuthenticationFailed
	}
	return nil
}

// LogValue implements slog.LogValuer.
func (o Outcome) LogValue() slog.Value {
	attrs := []slog.Attr{slog.String("status", string(o.Status))}
	if o.Event != "" {
		attrs = append(attrs, slog.String("event", string(o.Event)))
	}
	if o.Status == Ignored {
		attrs = append(attrs,
			slog.String("reason", o.Reason),
			slog.Any("expected", o.Expected),
			slog.String("received", o.Received))
	}
	return slog.GroupValue(attrs...)
}

func unauthorized() Outcome {
	return Outcome{Status: Unauthorized}
}

func ignored(event Event, reason string, expected any, received string) Outcome {
	return Outcome{
		Status:   Ignored,
		Event:    event,
		Reason:   reason,
		Expected: expected,
		Received: received,
	}
}

package trigger

import (
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("wpevent", func(fl validator.FieldLevel) bool {
		e := Event(fl.Field().String())
		return e == "" || IsValidEvent(e)
	})
	_ = v.RegisterValidation("wpstatus", func(fl validator.FieldLevel) bool {
		return IsValidPostStatus(PostStatus(fl.Field().String()))
	})
	return v
}

// Config is the immutable configuration a trigger is registered with.
type Config struct {
	// Event is the event the trigger listens for. EventAny, or no event at all, disables the event gate.
	Event Event `validate:"wpevent"`
	// SecretToken must match the x-wp-webhook-token header when non-empty.
	SecretToken string
	// PostTypeFilter restricts accepted events to a single post type when non-empty.
	PostTypeFilter string
	// PostStatusFilter restricts accepted events to the listed statuses when non-empty.
	PostStatusFilter []PostStatus `validate:"dive,wpstatus"`
}

// NewConfig builds a Config, defaulting the event to EventAny and collapsing duplicate statuses.
func NewConfig(event Event, secretToken, postType string, statuses ...PostStatus) (Config, error) {
	if event == "" {
		event = EventAny
	}
	var filter []PostStatus
	for _, s := range statuses {
		if !slices.Contains(filter, s) {
			filter = append(filter, s)
		}
	}
	cfg := Config{
		Event:            event,
		SecretToken:      secretToken,
		PostTypeFilter:   postType,
		PostStatusFilter: filter,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the event and the post-status filter against their enumerations.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(err, "invalid trigger configuration")
	}
	return nil
}

// ListensFor returns the configured event, EventAny when none is set.
func (c Config) ListensFor() Event {
	if c.Event == "" {
		return EventAny
	}
	return c.Event
}

// TokenConfigured reports whether requests must carry the secret token.
func (c Config) TokenConfigured() bool {
	return c.SecretToken != ""
}

// PostTypeConfigured reports whether the post-type gate is enabled.
func (c Config) PostTypeConfigured() bool {
	return c.PostTypeFilter != ""
}

// PostStatusConfigured reports whether the post-status gate is enabled.
func (c Config) PostStatusConfigured() bool {
	return len(c.PostStatusFilter) > 0
}

// AllowsStatus reports whether status is in the post-status filter.
func (c Config) AllowsStatus(status string) bool {
	return slices.Contains(c.PostStatusFilter, PostStatus(status))
}

func (c Config) allowedStatuses() []string {
	out := make([]string, len(c.PostStatusFilter))
	for i, s := range c.PostStatusFilter {
		out[i] = string(s)
	}
	return out
}

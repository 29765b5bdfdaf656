package forwarder

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/trigger"
	"github.com/pkg/errors"
)

// ObjectStore stores JSON documents. It is implemented by the AWS controller.
type ObjectStore interface {
	PutS3Object(ctx context.Context, bucket, key string, body []byte) error
}

type s3Forwarder struct {
	store  ObjectStore
	bucket string
	prefix string
}

// NewS3Forwarder returns a Forwarder archiving every event as a JSON object in bucket.
func NewS3Forwarder(store ObjectStore, bucket, prefix string) Forwarder {
	return &s3Forwarder{store: store, bucket: bucket, prefix: prefix}
}

func (f *s3Forwarder) Name() string {
	return "s3"
}

func (f *s3Forwarder) Forward(ctx context.Context, event delivery.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}
	return f.store.PutS3Object(ctx, f.bucket, ObjectKey(f.prefix, event), body)
}

// ObjectKey returns the key an event is stored under: <prefix><receivedAt>.<event>.<id>.json
func ObjectKey(prefix string, event delivery.Event) string {
	return fmt.Sprintf("%s%s.%s.%s.json", prefix, event.ReceivedAt.UTC().Format(trigger.TimestampLayout), event.Event, event.ID)
}

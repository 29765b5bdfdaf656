package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/isometry/wp-trigger-app/internal/config"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/wordpress"
)

func possibleValues(options []wordpress.Option) string {
	values := make([]string, len(options))
	for i, o := range options {
		values[i] = fmt.Sprintf("'%s'", o.Value)
	}
	return fmt.Sprintf("Possible values are %s and %s", strings.Join(values[:len(values)-1], ", "), values[len(values)-1])
}

var envMapString = map[*string]boundEnvVar[string]{
	&config.Global.Mode: {
		Name:        "mode",
		Description: "The application runtime mode. Possible values are 'lambda' and 'service'",
		Short:       helpers.Ptr("m"),
	},
	&config.Trigger.Name: {
		Name:        "trigger-name",
		Description: "The name of the trigger, used in logs, metrics and delivered events",
		Short:       helpers.Ptr("n"),
	},
	&config.Trigger.Path: {
		Name:        "trigger-path",
		Description: "The HTTP path the trigger is served on in service mode",
		Short:       helpers.Ptr("P"),
	},
	&config.Trigger.Event: {
		Name:        "trigger-event",
		Description: "The WordPress event to listen for. " + possibleValues(wordpress.TriggerEvents()),
		Short:       helpers.Ptr("e"),
	},
	&config.Trigger.SecretToken: {
		Name:        "trigger-secret-token",
		Description: "The token expected in the x-wp-webhook-token header. If not specified, no authentication is performed",
		Env:         helpers.Ptr("WP_WEBHOOK_SECRET_TOKEN"),
	},
	&config.Trigger.SecretTokenSSMKey: {
		Name:        "trigger-secret-token-ssm-key",
		Description: "The SSM parameter holding the secret token. Takes precedence over --trigger-secret-token",
	},
	&config.Trigger.PostType: {
		Name:        "trigger-post-type",
		Description: "Only forward events for this post type",
	},
	&config.Forward.S3.Bucket: {
		Name:        "forward-s3-bucket",
		Description: "The S3 bucket accepted events are written to. If not specified, S3 forwarding is disabled",
	},
	&config.Forward.S3.Prefix: {
		Name:        "forward-s3-prefix",
		Description: "The key prefix of objects written to the S3 bucket",
	},
	&config.Forward.HTTP.URL: {
		Name:        "forward-http-url",
		Description: "The URL accepted events are posted to. If not specified, HTTP forwarding is disabled",
	},
}

var envMapBool = map[*bool]boundEnvVar[bool]{
	&config.Global.Logging.CallerTrace: {
		Name:        "verbosity-caller-trace",
		Description: "Enable caller trace in logs",
		Short:       helpers.Ptr("V"),
	},
	&config.Forward.Log.Enabled: {
		Name:        "forward-log",
		Description: "Log accepted events",
	},
}

var envMapInt = map[*int]boundEnvVar[int]{
	&config.Global.Logging.Verbosity: {
		Name:        "verbosity",
		Description: "Increase logger verbosity (default WarnLevel)",
		Short:       helpers.Ptr("v"),
		Count:       true,
	},
	&config.Trigger.AuthFailureStatusCode: {
		Name:        "trigger-auth-failure-status-code",
		Description: "The HTTP status code answered when the secret token does not match",
	},
	&config.Forward.HTTP.RetryMax: {
		Name:        "forward-http-retry-max",
		Description: "The maximum number of retries of a failed HTTP delivery",
	},
}

var envMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Forward.Timeout: {
		Name:        "forward-timeout",
		Description: "The timeout of a delivery to one forwarder, retries included",
	},
	&config.Forward.HTTP.Timeout: {
		Name:        "forward-http-timeout",
		Description: "The timeout of a single HTTP delivery attempt",
	},
}

var envMapStringSlice = map[*[]string]boundEnvVar[[]string]{
	&config.Trigger.PostStatus: {
		Name:        "trigger-post-status",
		Description: "Only forward events whose post status is one of these. " + possibleValues(wordpress.PostStatuses()),
	},
}

var envMapStringMap = map[*map[string]string]boundEnvVar[map[string]string]{
	&config.Forward.HTTP.Headers: {
		Name:        "forward-http-header",
		Description: "Extra headers sent with every HTTP delivery, as name=value pairs",
	},
}

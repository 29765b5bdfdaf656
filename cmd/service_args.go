package cmd

import (
	"time"

	"github.com/isometry/wp-trigger-app/internal/config"
	"github.com/isometry/wp-trigger-app/internal/helpers"
)

var svcEnvMapString = map[*string]boundEnvVar[string]{
	&config.Service.Addr: {
		Name:        "service-host-addr",
		Description: "The address to serve the service on (default all interfaces in dual-stack serviceMode)",
		Short:       helpers.Ptr("H"),
	},
	&config.Service.Port: {
		Name:        "service-host-port",
		Description: "The port to serve the service on",
		Short:       helpers.Ptr("p"),
		Default:     helpers.Ptr("8080"),
	},
	&config.Service.Path: {
		Name:        "service-host-path",
		Description: "The path prefix triggers are served under",
		Default:     helpers.Ptr("/"),
	},
	&config.Service.Metrics.Path: {
		Name:        "service-metrics-path",
		Description: "The path metrics are served on",
		Default:     helpers.Ptr("/metrics"),
	},
}

var svcEnvMapInt = map[*int]boundEnvVar[int]{
	&config.Service.RateLimit: {
		Name:        "service-rate-limit",
		Description: "The maximum number of calls per minute accepted by each trigger. Zero disables limiting",
	},
}

var svcEnvMapBool = map[*bool]boundEnvVar[bool]{
	&config.Service.Metrics.Enabled: {
		Name:        "service-metrics",
		Description: "Serve Prometheus metrics",
	},
}

var svcEnvMapDuration = map[*time.Duration]boundEnvVar[time.Duration]{
	&config.Service.Timeout: {
		Name:        "service-io-timeout",
		Description: "The timeout for I/O operations",
		Short:       helpers.Ptr("t"),
		Default:     helpers.TimeDurationPtr(5 * time.Second),
	},
}

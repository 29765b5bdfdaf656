// Package config provides a centralized entrypoint for the application parameters.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/creasty/defaults"
	"go.yaml.in/yaml/v3"
)

// Runtime modes.
const (
	ModeService = "service"
	ModeLambda  = "lambda"
)

var (
	// Global is a struct that contains the global configuration.
	Global global
	// Service is a struct that contains the configuration for the service mode.
	Service service
	// Lambda is a struct that contains the configuration for the lambda mode.
	Lambda lambda
	// Trigger is the trigger registered from flags and environment.
	Trigger TriggerSpec
	// Triggers holds additional triggers declared in the configuration file. Service mode only.
	Triggers []TriggerSpec
	// TriggerDeclared records that Trigger was set explicitly, in the configuration file or from flags and environment.
	TriggerDeclared bool
	// Forward is a struct that contains the configuration of the downstream forwarders.
	Forward forward
)

type global struct {
	// Mode is the runtime mode of the application.
	Mode string `yaml:"mode,omitempty" default:"service"`
	// Logging is a struct that contains the logging configuration.
	Logging struct {
		// Verbosity is the verbosity level of the application. It represents slog levels.
		Verbosity int `yaml:"verbosity,omitempty"`
		// CallerTrace is a flag that enables the caller trace in the logger.
		CallerTrace bool `yaml:"callerTrace,omitempty"`
	} `yaml:"logging,omitempty"`
}

type service struct {
	// Path prefixes every trigger path.
	Path    string        `yaml:"path,omitempty" default:"/"`
	Addr    string        `yaml:"addr,omitempty"`
	Port    string        `yaml:"port,omitempty" default:"8080"`
	Timeout time.Duration `yaml:"timeout,omitempty" default:"5s"`
	// RateLimit caps accepted calls per minute per trigger. Zero disables limiting.
	RateLimit int `yaml:"rateLimit,omitempty"`
	Metrics   struct {
		Enabled bool   `yaml:"enabled,omitempty" default:"true"`
		Path    string `yaml:"path,omitempty" default:"/metrics"`
	} `yaml:"metrics,omitempty"`
}

type lambda struct {
	PayloadType string `yaml:"payloadType,omitempty" default:"api-gateway-v2"`
}

// TriggerSpec is the registration of one webhook trigger.
type TriggerSpec struct {
	Name string `yaml:"name,omitempty" default:"default"`
	// Path is the HTTP path the trigger is mounted on in service mode.
	Path  string `yaml:"path,omitempty" default:"/"`
	Event string `yaml:"event,omitempty" default:"any"`
	// SecretToken is compared with the x-wp-webhook-token header when set.
	SecretToken string `yaml:"secretToken,omitempty"`
	// SecretTokenSSMKey names an SSM parameter holding the secret token. It takes precedence over SecretToken.
	SecretTokenSSMKey     string   `yaml:"secretTokenSSMKey,omitempty"`
	PostType              string   `yaml:"postType,omitempty"`
	PostStatus            []string `yaml:"postStatus,omitempty"`
	AuthFailureStatusCode int      `yaml:"authFailureStatusCode,omitempty" default:"401"`
}

type forward struct {
	// Timeout bounds a single delivery to one forwarder. Pending deliveries are drained within it on shutdown.
	Timeout time.Duration `yaml:"timeout,omitempty" default:"30s"`
	Log     struct {
		Enabled bool `yaml:"enabled,omitempty" default:"true"`
	} `yaml:"log,omitempty"`
	S3 struct {
		Bucket string `yaml:"bucket,omitempty"`
		Prefix string `yaml:"prefix,omitempty" default:"wp-trigger/"`
	} `yaml:"s3,omitempty"`
	HTTP struct {
		URL      string            `yaml:"url,omitempty"`
		Timeout  time.Duration     `yaml:"timeout,omitempty" default:"10s"`
		RetryMax int               `yaml:"retryMax,omitempty" default:"3"`
		Headers  map[string]string `yaml:"headers,omitempty"`
	} `yaml:"http,omitempty"`
}

// SetDefaults sets the default values for the configuration.
func SetDefaults() error {
	errs := []error{
		defaults.Set(&Global),
		defaults.Set(&Service),
		defaults.Set(&Lambda),
		defaults.Set(&Trigger),
		defaults.Set(&Forward),
	}
	for i := range Triggers {
		errs = append(errs, defaults.Set(&Triggers[i]))
	}
	return errors.Join(errs...)
}

// LoadFromFile loads the configuration from a file.
func LoadFromFile(path string) error {
	if len(path) == 0 {
		return nil
	}
	fstat, err := os.Stat(path)
	if err != nil {
		return nil //nolint:nilerr // If the file does not exist, we ignore it.
	}
	if fstat.IsDir() {
		return fmt.Errorf("configuration file %s is a directory", path)
	}
	if !fstat.Mode().IsRegular() {
		return fmt.Errorf("configuration file %s is not a regular file", path)
	}

	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to read configuration file %s: %w", path, err)
	}
	type all struct {
		Global   global        `yaml:"global,omitempty"`
		Service  service       `yaml:"service,omitempty"`
		Lambda   lambda        `yaml:"lambda,omitempty"`
		Trigger  *TriggerSpec  `yaml:"trigger,omitempty"`
		Triggers []TriggerSpec `yaml:"triggers,omitempty"`
		Forward  forward       `yaml:"forward,omitempty"`
	}
	var a all
	if err = yaml.Unmarshal(content, &a); err != nil {
		return fmt.Errorf("failed to unmarshal configuration file %s: %w", path, err)
	}
	Global = a.Global
	Service = a.Service
	Lambda = a.Lambda
	Trigger, TriggerDeclared = TriggerSpec{}, a.Trigger != nil
	if a.Trigger != nil {
		Trigger = *a.Trigger
	}
	Triggers = a.Triggers
	Forward = a.Forward

	return nil
}

// AllTriggers returns the triggers to serve: the file-declared ones, preceded by Trigger when it was declared
// or when the file declares none.
func AllTriggers() []TriggerSpec {
	if !TriggerDeclared && len(Triggers) > 0 {
		return slices.Clone(Triggers)
	}
	return append([]TriggerSpec{Trigger}, Triggers...)
}

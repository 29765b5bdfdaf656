package cmd

import (
	"context"
	stderrors "errors"
	"log/slog"
	"slices"

	"github.com/isometry/wp-trigger-app/internal/config"
	awsc "github.com/isometry/wp-trigger-app/internal/controllers/aws"
	"github.com/isometry/wp-trigger-app/internal/forwarder"
	"github.com/isometry/wp-trigger-app/internal/handler"
	"github.com/isometry/wp-trigger-app/internal/metrics"
	"github.com/isometry/wp-trigger-app/internal/runtime"
	"github.com/isometry/wp-trigger-app/internal/trigger"
	"github.com/pkg/errors"
)

type secretGetter interface {
	GetSecret(ctx context.Context, key string, encrypted bool) (string, error)
}

// mount is a trigger runtime and the HTTP path it is served on.
type mount struct {
	Path    string
	Runtime *runtime.Runtime
}

// builder turns the loaded configuration into trigger runtimes.
// The AWS controller is only created when a trigger or forwarder needs it.
type builder struct {
	ctx     context.Context
	logger  *slog.Logger
	metrics *metrics.Metrics

	secrets secretGetter
	store   forwarder.ObjectStore
}

func (b *builder) aws() error {
	if b.secrets != nil && b.store != nil {
		return nil
	}
	ctrl, err := awsc.NewController(
		awsc.WithContext(b.ctx),
		awsc.WithLogger(b.logger.With("component", "aws")))
	if err != nil {
		return errors.Wrap(err, "failed to create AWS controller")
	}
	if b.secrets == nil {
		b.secrets = ctrl
	}
	if b.store == nil {
		b.store = ctrl
	}
	return nil
}

func (b *builder) forwarders() ([]forwarder.Forwarder, error) {
	var fwds []forwarder.Forwarder
	if config.Forward.Log.Enabled {
		fwds = append(fwds, forwarder.NewLogForwarder(b.logger.With("component", "forwarder")))
	}
	if config.Forward.S3.Bucket != "" {
		if err := b.aws(); err != nil {
			return nil, err
		}
		fwds = append(fwds, forwarder.NewS3Forwarder(b.store, config.Forward.S3.Bucket, config.Forward.S3.Prefix))
	}
	if config.Forward.HTTP.URL != "" {
		fwds = append(fwds, forwarder.NewHTTPForwarder(config.Forward.HTTP.URL,
			forwarder.WithHTTPTimeout(config.Forward.HTTP.Timeout),
			forwarder.WithHTTPRetryMax(config.Forward.HTTP.RetryMax),
			forwarder.WithHTTPHeaders(config.Forward.HTTP.Headers),
			forwarder.WithHTTPLogger(b.logger.With("component", "forwarder"))))
	}
	return fwds, nil
}

func (b *builder) secretToken(spec config.TriggerSpec) (string, error) {
	if spec.SecretTokenSSMKey == "" {
		return spec.SecretToken, nil
	}
	if err := b.aws(); err != nil {
		return "", err
	}
	token, err := b.secrets.GetSecret(b.ctx, spec.SecretTokenSSMKey, true)
	if err != nil {
		return "", errors.Wrapf(err, "failed to fetch secret token of trigger %s", spec.Name)
	}
	return token, nil
}

func (b *builder) handler(spec config.TriggerSpec, fwds []forwarder.Forwarder) (*handler.Handler, error) {
	token, err := b.secretToken(spec)
	if err != nil {
		return nil, err
	}
	statuses := make([]trigger.PostStatus, len(spec.PostStatus))
	for i, s := range spec.PostStatus {
		statuses[i] = trigger.PostStatus(s)
	}
	cfg, err := trigger.NewConfig(trigger.Event(spec.Event), token, spec.PostType, statuses...)
	if err != nil {
		return nil, errors.Wrapf(err, "trigger %s", spec.Name)
	}
	return handler.NewHandler(
		handler.WithContext(b.ctx),
		handler.WithLogger(b.logger.With("component", "handler")),
		handler.WithTrigger(spec.Name, cfg),
		handler.WithForwarders(fwds...),
		handler.WithForwardTimeout(config.Forward.Timeout),
		handler.WithMetrics(b.metrics),
		handler.WithAuthFailureStatusCode(spec.AuthFailureStatusCode))
}

// mounts builds one runtime per trigger. Trigger names and paths must be unique.
func (b *builder) mounts(specs []config.TriggerSpec, opts ...runtime.Option) ([]mount, error) {
	fwds, err := b.forwarders()
	if err != nil {
		return nil, err
	}

	var names, paths []string
	var errs []error
	mounts := make([]mount, 0, len(specs))
	for _, spec := range specs {
		if slices.Contains(names, spec.Name) {
			errs = append(errs, errors.Errorf("duplicate trigger name %s", spec.Name))
			continue
		}
		if slices.Contains(paths, spec.Path) {
			errs = append(errs, errors.Errorf("duplicate trigger path %s", spec.Path))
			continue
		}
		names, paths = append(names, spec.Name), append(paths, spec.Path)

		hdl, err := b.handler(spec, fwds)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		rtOpts := append([]runtime.Option{runtime.WithLogger(b.logger.With("component", "runtime", "trigger", spec.Name))}, opts...)
		mounts = append(mounts, mount{Path: spec.Path, Runtime: runtime.NewRuntime(hdl, rtOpts...)})
	}
	if len(errs) > 0 {
		return nil, errors.Wrap(stderrors.Join(errs...), "invalid trigger configuration")
	}
	return mounts, nil
}

// closeMounts drains the pending deliveries of every mount.
func closeMounts(ctx context.Context, mounts []mount) error {
	errs := make([]error, 0, len(mounts))
	for _, mt := range mounts {
		errs = append(errs, mt.Runtime.Close(ctx))
	}
	return stderrors.Join(errs...)
}

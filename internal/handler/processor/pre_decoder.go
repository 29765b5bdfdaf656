package processor

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime"
	"net/url"

	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/trigger"
)

type decoderPreProcessor struct {
	logger *slog.Logger
	config trigger.Config
}

// NewDecoderPreProcessor returns the Processor that turns a raw Request into a Bus with a parsed body.
// Bodies that cannot be parsed become empty so that every gate degrades to its absent-field behaviour.
func NewDecoderPreProcessor(config trigger.Config, opts ...Option) Processor {
	_inst := &decoderPreProcessor{config: config, logger: helpers.NewNoopLogger()}
	applyOpts(_inst, opts...)
	return _inst
}

func (p *decoderPreProcessor) SetLogger(logger *slog.Logger) {
	p.logger = logger.WithGroup("pre-processor:decoder")
}

func (p *decoderPreProcessor) Process(_ context.Context, req any) (*delivery.Bus, error) {
	raw, ok := req.(*Request)
	if !ok {
		return nil, delivery.NewInternalError("invalid request type. expected *processor.Request got %T", req)
	}

	bus := &delivery.Bus{
		Trigger: raw.Trigger,
		Config:  p.config,
		Body:    raw.Body,
		Headers: raw.Headers,
		Payload: trigger.Body{},
	}

	if len(bytes.TrimSpace(raw.Body)) == 0 {
		p.logger.Debug("empty body")
		return bus, nil
	}

	mediaType, _, err := mime.ParseMediaType(raw.Headers["content-type"])
	if err != nil {
		mediaType = "application/json"
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		bus.Payload = decodeForm(p.logger, raw.Body)
	default:
		bus.Payload = decodeJSON(p.logger, raw.Body)
	}
	return bus, nil
}

func decodeJSON(logger *slog.Logger, body []byte) trigger.Body {
	var payload map[string]any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		logger.Warn("ignoring undecodable JSON body", slog.Any("error", err), slog.String("body", helpers.Truncate(string(body), 256)))
		return trigger.Body{}
	}
	if payload == nil {
		return trigger.Body{}
	}
	return payload
}

func decodeForm(logger *slog.Logger, body []byte) trigger.Body {
	values, err := url.ParseQuery(string(body))
	if err != nil {
		logger.Warn("ignoring undecodable form body", slog.Any("error", err))
		return trigger.Body{}
	}
	payload := make(trigger.Body, len(values))
	for k, v := range values {
		if len(v) == 1 {
			payload[k] = v[0]
		} else {
			payload[k] = v
		}
	}
	return payload
}

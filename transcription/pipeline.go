package transcription

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/memoscribe/errors"
	"github.com/kbukum/memoscribe/logger"
	"github.com/kbukum/memoscribe/observability"
	"github.com/kbukum/memoscribe/resilience"
	"github.com/kbukum/memoscribe/storage"
)

// State is a step of one transcription.
type State string

const (
	StateValidating       State = "validating"
	StateAwaitingResource State = "awaiting_resource"
	StateStaged           State = "staged"
	StateInferring        State = "inferring"
	StateSucceeded        State = "succeeded"
	StateFailed           State = "failed"
)

// Pipeline transcribes uploads with the model from a ModelSource.
type Pipeline struct {
	models  ModelSource
	store   storage.Storage
	pool    *resilience.Bulkhead
	timeout time.Duration
	opts    options
}

// NewPipeline creates a pipeline. pool runs inference jobs; timeout bounds
// each job and zero means no limit.
func NewPipeline(models ModelSource, store storage.Storage, pool *resilience.Bulkhead, timeout time.Duration, opts ...Option) *Pipeline {
	return &Pipeline{
		models:  models,
		store:   store,
		pool:    pool,
		timeout: timeout,
		opts:    buildOptions(opts),
	}
}

// NewInferencePool creates the bulkhead inference jobs run on.
func NewInferencePool(cfg Config) *resilience.Bulkhead {
	return resilience.NewBulkhead(resilience.BulkheadConfig{
		Name:          "inference",
		MaxConcurrent: cfg.Workers,
		MaxWait:       cfg.QueueWait,
	})
}

// run tracks one call for the final log line, span and metrics.
type run struct {
	state  State
	size   int64
	digest string
}

// Transcribe returns the trimmed transcript of upload.
//
// Errors are *errors.AppError values: INVALID_INPUT for a missing filename
// or empty content, the loader's RESOURCE_UNAVAILABLE unchanged,
// INFERENCE_FAILED when the model run fails or no worker frees up in time,
// and EXTRACTION_FAILED when the model produces no text.
func (p *Pipeline) Transcribe(ctx context.Context, upload Upload) (text string, err error) {
	start := time.Now()
	r := &run{state: StateValidating}

	ctx, span := p.opts.tracer.Start(ctx, observability.SpanTranscribe)
	p.opts.metrics.RecordStart(ctx)
	defer func() { p.finish(ctx, span, r, start, err) }()

	if strings.TrimSpace(upload.Filename) == "" {
		return "", errors.Validation(MsgMissingFilename)
	}

	r.state = StateAwaitingResource
	model, err := p.models.EnsureReady(ctx)
	if err != nil {
		return "", err
	}

	data, err := upload.ReadAll()
	if err != nil {
		return "", errors.Internal(err)
	}
	if len(data) == 0 {
		return "", errors.Validation(MsgEmptyFile)
	}

	err = storage.WithStaged(ctx, p.store, SuffixFor(upload.Filename), data, func(f *storage.StagedFile) error {
		r.state = StateStaged
		r.size, r.digest = f.Size(), f.Digest()
		p.opts.metrics.RecordStagedBytes(ctx, f.Size())

		r.state = StateInferring
		out, runErr := p.infer(ctx, model, f.Path())
		if runErr != nil {
			return errors.InferenceFailed(runErr)
		}
		if out != nil {
			text = strings.TrimSpace(out.Text)
		}
		return nil
	})
	if err != nil {
		return "", errors.Wrap(err)
	}
	if text == "" {
		return "", errors.ExtractionFailed()
	}

	r.state = StateSucceeded
	return text, nil
}

// infer dispatches the blocking model call to the inference pool and waits
// for it to finish, even if ctx ends first, so the staged file outlives the
// call.
func (p *Pipeline) infer(ctx context.Context, model Model, path string) (*Output, error) {
	ctx, span := p.opts.tracer.Start(ctx, observability.SpanInference)
	out, err := resilience.Submit(ctx, p.pool, p.timeout, func(ctx context.Context) (*Output, error) {
		return model.Run(ctx, path)
	}).Wait()
	observability.EndSpan(span, err)
	return out, err
}

func (p *Pipeline) finish(ctx context.Context, span trace.Span, r *run, start time.Time, err error) {
	final := StateSucceeded
	if err != nil {
		final = StateFailed
	}
	elapsed := time.Since(start)

	fields := logger.Fields(
		logger.FieldState, string(final),
		logger.FieldDuration, elapsed.Milliseconds(),
		"bytes", r.size,
	)
	attrs := []attribute.KeyValue{
		attribute.String(observability.AttrState, string(final)),
		attribute.Int64(observability.AttrBytes, r.size),
	}
	if r.digest != "" {
		fields["digest"] = r.digest
		attrs = append(attrs, attribute.String(observability.AttrDigest, r.digest))
	}

	log := p.opts.log.WithContext(ctx)
	if err != nil {
		fields["failed_at"] = string(r.state)
		fields[logger.FieldError] = err.Error()
		if appErr, ok := errors.AsAppError(err); ok {
			attrs = append(attrs, attribute.String(observability.AttrErrorCode, string(appErr.Code)))
		}
		log.Warn("Transcription failed", fields)
	} else {
		log.Info("Transcription succeeded", fields)
	}

	span.SetAttributes(attrs...)
	observability.EndSpan(span, err)
	p.opts.metrics.RecordTranscription(ctx, string(final), elapsed)
}

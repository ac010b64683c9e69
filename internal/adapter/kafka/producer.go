package kafka

import (
	"context"
	"log/slog"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

var _ port.PurchaseEmitter = (*PurchasesProducer)(nil)

func defaultRetryConfig() retry.RetryConfig {
	return retry.RetryConfig{
		MaxAttempts: 3,
		Backoff:     retry.ExponentialBackoff(50 * time.Millisecond),
		ShouldRetry: kerr.IsRetriable,
	}
}

// A producer is used for composition.
//
// Producing records to kafka broker and closing underlying [kgo.Client].
type producer struct {
	opPrefix string
	cl       ProducerClient
	retry    retry.RetryConfig
}

func (p producer) close() {
	const op = "close"
	log := slog.With("op", makeOp(p.opPrefix, op))
	log.Info("closing producer...")
	p.cl.Close()
	log.Info("producer is closed")
}

func (p producer) produce(
	ctx context.Context, rs ...*kgo.Record,
) error {
	const op = "produce"
	err := retry.Do(ctx, p.retry, func() error {
		return p.cl.ProduceSync(ctx, rs...).FirstErr()
	})
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}
	return nil
}

// A PurchasesProducer publishes [domain.PurchaseCompleted] keyed by username,
// so one user's purchases keep their order within a partition.
type PurchasesProducer struct {
	producer producer
	encoder  Encoder
	opPrefix string
}

// NewPurchasesProducer requires a client option and [ProducerEncoderOpt].
func NewPurchasesProducer(
	opts ...ProducerOpt,
) (PurchasesProducer, error) {
	const op = "NewPurchasesProducer"

	options := producerOpts{retry: defaultRetryConfig()}
	for _, opt := range opts {
		if err := opt(&options); err != nil {
			return PurchasesProducer{}, opErr(err, op)
		}
	}

	if options.cl == nil || options.encoder == nil {
		return PurchasesProducer{}, opErr(ErrTooFewOpts, op)
	}

	opPrefix := "PurchasesProducer"
	p := producer{
		opPrefix: opPrefix,
		cl:       options.cl,
		retry:    options.retry,
	}

	return PurchasesProducer{
		producer: p,
		encoder:  options.encoder,
		opPrefix: opPrefix,
	}, nil
}

func (p PurchasesProducer) Close() {
	p.producer.close()
}

func (p PurchasesProducer) EmitPurchase(
	ctx context.Context, v domain.PurchaseCompleted,
) error {
	const op = "EmitPurchase"

	if err := ctx.Err(); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	r, err := p.createRecord(v)
	if err != nil {
		return opErr(err, p.opPrefix, op)
	}

	if err := p.producer.produce(ctx, r); err != nil {
		return opErr(err, p.opPrefix, op)
	}

	slog.Debug("purchase emitted",
		"op", makeOp(p.opPrefix, op), "orderID", v.OrderID)
	return nil
}

func (p PurchasesProducer) createRecord(
	v domain.PurchaseCompleted,
) (*kgo.Record, error) {
	const op = "createRecord"

	s := p.toSchema(v)
	b, err := p.encoder.Encode(s)
	if err != nil {
		return nil, opErr(err, p.opPrefix, op)
	}
	return &kgo.Record{Key: []byte(s.Username), Value: b}, nil
}

func (PurchasesProducer) toSchema(v domain.PurchaseCompleted) schema.PurchaseV1 {
	return purchaseToSchemaV1(v)
}

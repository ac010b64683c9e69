package kafka

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/pkg/retry"
	"github.com/niksmo/storefront/pkg/schema"
	"github.com/twmb/franz-go/pkg/kgo"
)

var (
	ErrTooFewOpts = errors.New("too few options")
)

const recordDeliveryTimeout = 5 * time.Second

type ProducerOpt func(*producerOpts) error

type producerOpts struct {
	cl      ProducerClient
	encoder Encoder
	retry   retry.RetryConfig
}

// ProducerClientOpt connects a [kgo.Client] producing to topic.
// A nil tlsCfg dials in plaintext. A record that is not acknowledged
// within 5s fails instead of blocking its produce call.
func ProducerClientOpt(
	ctx context.Context, seedBrokers []string, topic string, tlsCfg *tls.Config,
) ProducerOpt {
	return func(opts *producerOpts) error {
		kgoOpts := []kgo.Opt{
			kgo.SeedBrokers(seedBrokers...),
			kgo.DefaultProduceTopicAlways(),
			kgo.DefaultProduceTopic(topic),
			kgo.RequiredAcks(kgo.AllISRAcks()),
			kgo.AllowAutoTopicCreation(),
			kgo.RecordDeliveryTimeout(recordDeliveryTimeout),
		}
		if tlsCfg != nil {
			kgoOpts = append(kgoOpts, kgo.DialTLSConfig(tlsCfg))
		}

		cl, err := kgo.NewClient(kgoOpts...)
		if err != nil {
			return err
		}

		if err := cl.Ping(ctx); err != nil {
			cl.Close()
			return err
		}
		opts.cl = cl
		return nil
	}
}

// ProducerInstanceOpt uses an already built client.
func ProducerInstanceOpt(cl ProducerClient) ProducerOpt {
	return func(opts *producerOpts) error {
		if cl == nil {
			return errors.New("client is nil")
		}
		opts.cl = cl
		return nil
	}
}

func ProducerEncoderOpt(encoder Encoder) ProducerOpt {
	return func(opts *producerOpts) error {
		if encoder == nil {
			return errors.New("encoder is nil")
		}
		opts.encoder = encoder
		return nil
	}
}

// ProducerRetryOpt overrides the retry policy of failed produce calls.
func ProducerRetryOpt(c retry.RetryConfig) ProducerOpt {
	return func(opts *producerOpts) error {
		opts.retry = c
		return nil
	}
}

type ProducerClient interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
	Close()
}

type Encoder interface {
	Encode(v any) ([]byte, error)
}

func makeOp(s ...string) string {
	return strings.Join(s, ".")
}

func opErr(err error, op ...string) error {
	return fmt.Errorf("%s: %w", makeOp(op...), err)
}

func purchaseToSchemaV1(v domain.PurchaseCompleted) (s schema.PurchaseV1) {
	s.OrderID = v.OrderID
	s.Username = v.Username
	s.Total = v.Total.String()
	s.CompletedAt = v.CompletedAt

	s.Records = make([]schema.PurchaseRecordV1, len(v.Records))
	for i, r := range v.Records {
		s.Records[i].ProductID = r.ProductID
		s.Records[i].Quantity = r.Quantity
		s.Records[i].TotalPrice = r.TotalPrice.String()
	}
	return
}

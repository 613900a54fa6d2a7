// Package queue carries scan jobs between the submission path and the
// worker fleet over Kafka. Messages are keyed by contract id so jobs for
// one contract stay ordered relative to each other.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"chainscan/internal/models"
	pkgerrors "chainscan/pkg/errors"
)

// Enqueuer is the send side consumed by the lifecycle manager.
type Enqueuer interface {
	EnqueueScan(ctx context.Context, payload models.ScanJobPayload) error
}

type Producer struct {
	topic string
	sp    sarama.SyncProducer
}

func NewProducer(brokersCSV, topic string) (*Producer, error) {
	if topic == "" {
		return nil, errors.New("topic empty")
	}
	brokers := splitCSV(brokersCSV)
	if len(brokers) == 0 {
		return nil, errors.New("no brokers")
	}

	cfg := sarama.NewConfig()

	// Reliability-oriented defaults
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 10
	cfg.Producer.Retry.Backoff = 200 * time.Millisecond

	// SyncProducer must have Return.Successes=true
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	cfg.Version = sarama.V2_1_0_0

	sp, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, err
	}

	return &Producer{topic: topic, sp: sp}, nil
}

func (p *Producer) Close() error {
	if p.sp != nil {
		return p.sp.Close()
	}
	return nil
}

// EnqueueScan sends the job and waits for broker ACK. After it returns nil
// the scan is guaranteed to be delivered to some worker at least once.
func (p *Producer) EnqueueScan(ctx context.Context, payload models.ScanJobPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(payload.ContractID),
		Value: sarama.ByteEncoder(data),
	}

	// sarama's SyncProducer doesn't accept a context; check before sending.
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if _, _, err := p.sp.SendMessage(msg); err != nil {
		return fmt.Errorf("%w: %v", pkgerrors.ErrQueueUnavailable, err)
	}
	return nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, x := range parts {
		x = strings.TrimSpace(x)
		if x != "" {
			out = append(out, x)
		}
	}
	return out
}

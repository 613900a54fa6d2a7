package queue

import (
	"context"
	"encoding/json"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"

	"chainscan/internal/models"
	"chainscan/pkg/logger"
)

// JobHandler processes one dequeued scan job. The handler owns job-level
// error handling (marking the scan failed); a returned error here only
// means the message itself was unusable.
type JobHandler interface {
	HandleScanJob(ctx context.Context, payload models.ScanJobPayload)
}

type Consumer struct {
	group   sarama.ConsumerGroup
	topic   string
	handler JobHandler
	logger  *logger.Logger
}

func NewConsumer(brokersCSV, groupID, topic string, handler JobHandler) (*Consumer, error) {
	brokers := splitCSV(brokersCSV)

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_1_0_0
	cfg.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRange
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true

	cg, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{
		group:   cg,
		topic:   topic,
		handler: handler,
		logger:  logger.NewLogger(logrus.InfoLevel),
	}, nil
}

func (c *Consumer) Close() error { return c.group.Close() }

// Run consumes the job topic until the context is cancelled. Consume
// returns on every rebalance, so it loops.
func (c *Consumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			c.logger.Error("Consumer group error", logger.Fields{"error": err})
		}
	}()

	handler := &groupHandler{consumer: c}
	for {
		if err := c.group.Consume(ctx, []string{c.topic}, handler); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

type groupHandler struct {
	consumer *Consumer
}

func (h *groupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

// ConsumeClaim processes messages one at a time: a job runs to completion
// before the next message on the claim is touched.
func (h *groupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var payload models.ScanJobPayload
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.consumer.logger.Error("Dropping malformed job message", logger.Fields{
				"error":     err,
				"partition": msg.Partition,
				"offset":    msg.Offset,
			})
			session.MarkMessage(msg, "")
			continue
		}

		h.consumer.handler.HandleScanJob(session.Context(), payload)

		// Job-level failures are recorded on the scan itself; the message
		// is always marked so the job is not redelivered.
		session.MarkMessage(msg, "")
	}
	return nil
}

package queue

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"log"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/stortfordearlybirds/membership-service/internal/interfaces"
)

// messageSource is the slice of *kafka.Reader Listen needs. FetchMessage
// hands out a message without committing it; the offset moves only through
// CommitMessages.
type messageSource interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type KafkaConsumer struct {
	Reader      *kafka.Reader
	Handler     interfaces.ConsumerHandler
	ServiceName string

	source messageSource
}

func NewKafkaConsumer(broker, topic, groupID, username, password string, handler interfaces.ConsumerHandler) *KafkaConsumer {
	cfg := kafka.ReaderConfig{
		Brokers:  []string{broker},
		GroupID:  groupID,
		Topic:    topic,
		MinBytes: 10e3,
		MaxBytes: 10e6,
	}

	if username != "" {
		cfg.Dialer = &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			TLS:           &tls.Config{},
			SASLMechanism: plain.Mechanism{Username: username, Password: password},
		}
	}

	reader := kafka.NewReader(cfg)
	return &KafkaConsumer{
		Reader:      reader,
		Handler:     handler,
		ServiceName: "Membership Service",
		source:      reader,
	}
}

// Listen blocks until ctx is cancelled, handing each message to the handler.
// Offsets commit only after the handler succeeds: a failed message stays
// uncommitted so the group redelivers it after a restart or rebalance.
func (kc *KafkaConsumer) Listen(ctx context.Context) {
	for {
		msg, err := kc.source.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				log.Printf("[%s] consumer stopped", kc.ServiceName)
				return
			}
			log.Printf("[%s] fetch error: %v", kc.ServiceName, err)
			continue
		}

		if err := kc.Handler.HandleMessage(string(msg.Value)); err != nil {
			log.Printf("[%s] handler error, message left uncommitted: %v", kc.ServiceName, err)
			continue
		}

		if err := kc.source.CommitMessages(ctx, msg); err != nil {
			log.Printf("[%s] commit error: %v", kc.ServiceName, err)
		}
	}
}

func (kc *KafkaConsumer) Close() error {
	return kc.Reader.Close()
}

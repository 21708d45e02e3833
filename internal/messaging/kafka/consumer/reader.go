package consumer

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader with a GroupID set.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// handleFunc reports whether msg may be committed.
type handleFunc func(ctx context.Context, msg kafkago.Message) bool

func run(ctx context.Context, reader MessageReader, handle handleFunc, log *zap.Logger) {
	log.Info("consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("consumer stopped")
				return
			}
			log.Error("fetch message failed", zap.Error(err))
			continue
		}

		if !handle(ctx, msg) {
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit message failed",
				zap.String("topic", msg.Topic),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
		}
	}
}

func requestIDOf(msg kafkago.Message) string {
	for _, h := range msg.Headers {
		if h.Key == "request_id" {
			return string(h.Value)
		}
	}
	return ""
}

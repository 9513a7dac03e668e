package outbox

import (
	"fmt"

	"github.com/Skotchmaster/campus_cafeteria/internal/config"
	"github.com/Skotchmaster/campus_cafeteria/internal/mykafka"
	"github.com/Skotchmaster/campus_cafeteria/internal/rabbit"
)

// NewPublisher builds the broker publisher selected by OUTBOX_SINK.
func NewPublisher(cfg config.ServiceConfig) (Publisher, error) {
	switch cfg.OutboxSink {
	case config.SinkKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, fmt.Errorf("outbox sink %s: no brokers", cfg.OutboxSink)
		}
		return mykafka.NewProducer(cfg.KafkaBrokers, DefaultTopic), nil
	case config.SinkRabbitMQ:
		pub, err := rabbit.Dial(cfg.RabbitMQURL, DefaultTopic)
		if err != nil {
			return nil, err
		}
		return pub, nil
	case config.SinkNone, "":
		return NopPublisher{}, nil
	default:
		return nil, fmt.Errorf("unknown outbox sink %q", cfg.OutboxSink)
	}
}

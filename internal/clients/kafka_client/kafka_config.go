package kafka_client

import "github.com/spacesedan/reviewpulse/config"

type KafkaConfig struct {
	Broker string
	Topic  string
}

func GetKafkaConfig(settings *config.Settings) KafkaConfig {
	topic := settings.EventsTopic
	if topic == "" {
		topic = KAFKA_TOPIC_ANALYSIS_EVENTS
	}
	return KafkaConfig{
		Broker: settings.KafkaBroker,
		Topic:  topic,
	}
}

// Enabled reports whether a broker is configured.
func (c KafkaConfig) Enabled() bool {
	return c.Broker != ""
}

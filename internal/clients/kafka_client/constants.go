package kafka_client

import "time"

const (
	KAFKA_TOPIC_ANALYSIS_EVENTS = "review-analysis" // aggregate results of each successful upload
)

const (
	PRODUCE_RETRIES  = 3
	DELIVERY_TIMEOUT = 5 * time.Second
	FLUSH_TIMEOUT_MS = 5000
)

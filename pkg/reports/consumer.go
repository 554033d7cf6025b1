package reports

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
)

const numConsumers = 2
const batchSize = 50

// StartConsumers opens the report queue and attaches the batch consumers applying to updater.
func StartConsumers(connection rmq.Connection, updater VehicleUpdater) (rmq.Queue, error) {
	queue, err := connection.OpenQueue(QueueName)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", QueueName, err)
	}

	if err := queue.StartConsuming(numConsumers*batchSize, 1*time.Second); err != nil {
		return nil, fmt.Errorf("consuming %s: %w", QueueName, err)
	}

	for i := 0; i < numConsumers; i++ {
		log.Info().Msgf("Starting report consumer %d", i)

		if _, err := queue.AddBatchConsumer(fmt.Sprintf("%s-%d", QueueName, i), batchSize, 2*time.Second, NewBatchConsumer(i, updater)); err != nil {
			return nil, fmt.Errorf("adding consumer %d: %w", i, err)
		}
	}

	return queue, nil
}

// StopConsumers stops every consumer on the connection and waits for their in-flight batches.
func StopConsumers(connection rmq.Connection) {
	log.Info().Msg("Stopping report consumers")
	<-connection.StopAllConsuming()
}

type BatchConsumer struct {
	id      int
	updater VehicleUpdater
}

func NewBatchConsumer(id int, updater VehicleUpdater) *BatchConsumer {
	return &BatchConsumer{id: id, updater: updater}
}

// Consume applies every valid report and rejects the ones that cannot be decoded or change nothing.
func (consumer *BatchConsumer) Consume(batch rmq.Deliveries) {
	applied := 0

	for _, delivery := range batch {
		var report Report
		if err := json.Unmarshal([]byte(delivery.Payload()), &report); err != nil {
			consumer.reject(delivery, err)
			continue
		}

		if err := report.Validate(); err != nil {
			consumer.reject(delivery, err)
			continue
		}

		apply(consumer.updater, report)
		applied++

		if err := delivery.Ack(); err != nil {
			log.Error().Err(err).Int("consumer", consumer.id).Msg("Failed to ack vehicle report")
		}
	}

	log.Debug().Int("consumer", consumer.id).Int("batch", len(batch)).Int("applied", applied).Msg("Consumed vehicle reports")
}

func (consumer *BatchConsumer) reject(delivery rmq.Delivery, reason error) {
	log.Warn().Err(reason).Int("consumer", consumer.id).Msg("Rejecting vehicle report")

	if err := delivery.Reject(); err != nil {
		log.Error().Err(err).Int("consumer", consumer.id).Msg("Failed to reject vehicle report")
	}
}

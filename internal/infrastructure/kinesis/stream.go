// Package kinesis feeds shop events arriving on a Kinesis stream of DynamoDB
// change records into the same handler the Kafka consumer drives.
package kinesis

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-lambda-go/events"

	"github.com/example/ec-datalayer/internal/tracking"
)

// Handler matches kafka.MessageHandler.
type Handler func(ctx context.Context, key, value []byte) error

// DecodeRecord turns one Kinesis record into a shop event. Only INSERTs carry
// new events; any other change yields nil without an error.
func DecodeRecord(record events.KinesisEventRecord) (*tracking.SourceEvent, error) {
	var change events.DynamoDBEventRecord
	if err := json.Unmarshal(record.Kinesis.Data, &change); err != nil {
		return nil, fmt.Errorf("failed to unmarshal DynamoDB record: %w", err)
	}
	return DecodeChange(change)
}

func DecodeChange(change events.DynamoDBEventRecord) (*tracking.SourceEvent, error) {
	if change.EventName != "INSERT" {
		return nil, nil
	}
	return decodeImage(change.Change.NewImage)
}

func decodeImage(image map[string]events.DynamoDBAttributeValue) (*tracking.SourceEvent, error) {
	if image == nil {
		return nil, fmt.Errorf("DynamoDB image is nil")
	}

	event := &tracking.SourceEvent{
		ID:            stringAttr(image, "id"),
		AggregateID:   stringAttr(image, "aggregate_id"),
		AggregateType: stringAttr(image, "aggregate_type"),
		EventType:     stringAttr(image, "event_type"),
	}
	if data := stringAttr(image, "data"); data != "" {
		event.Data = json.RawMessage(data)
	}
	if v, ok := image["created_at"]; ok {
		t, err := time.Parse(time.RFC3339Nano, v.String())
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		event.Timestamp = t
	}
	if v, ok := image["version"]; ok {
		version, err := v.Integer()
		if err != nil {
			return nil, fmt.Errorf("failed to parse version: %w", err)
		}
		event.Version = int(version)
	}

	if event.ID == "" || event.AggregateID == "" || event.EventType == "" {
		return nil, fmt.Errorf("missing required fields: id=%s, aggregate_id=%s, event_type=%s",
			event.ID, event.AggregateID, event.EventType)
	}
	return event, nil
}

func stringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	v, ok := image[key]
	if !ok || v.DataType() != events.DataTypeString {
		return ""
	}
	return v.String()
}

// ProcessBatch decodes every record and hands the events to handler keyed by
// aggregate id. Undecodable records and rejected events are logged and
// skipped; any other handler failure is reported as a batch item failure so
// the stream retries only those records.
func ProcessBatch(ctx context.Context, batch events.KinesisEvent, handler Handler) events.KinesisEventResponse {
	var failures []events.KinesisBatchItemFailure
	fail := func(record events.KinesisEventRecord) {
		failures = append(failures, events.KinesisBatchItemFailure{ItemIdentifier: record.Kinesis.SequenceNumber})
	}

	for _, record := range batch.Records {
		event, err := DecodeRecord(record)
		if err != nil {
			log.Printf("[Kinesis] Skipping undecodable record %s: %v", record.EventID, err)
			continue
		}
		if event == nil {
			continue
		}

		value, err := json.Marshal(event)
		if err != nil {
			log.Printf("[Kinesis] Failed to encode event %s: %v", event.ID, err)
			fail(record)
			continue
		}
		if err := handler(ctx, []byte(event.AggregateID), value); err != nil {
			if tracking.Rejected(err) {
				log.Printf("[Kinesis] Skipping rejected event %s: %v", event.ID, err)
				continue
			}
			log.Printf("[Kinesis] Failed to process event %s: %v", event.ID, err)
			fail(record)
		}
	}

	log.Printf("[Kinesis] Processed %d records, %d to retry", len(batch.Records), len(failures))
	return events.KinesisEventResponse{BatchItemFailures: failures}
}

package lib

import (
	"encoding/json"
	"log"
	"os"

	"github.com/confluentinc/confluent-kafka-go/kafka"
)

var kafkaProducer *kafka.Producer

func GetKafkaProducer(clientId string) (*kafka.Producer, error) {
	if kafkaProducer != nil {
		return kafkaProducer, nil
	}
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": os.Getenv("KAFKA_BROKER"),
		"client.id":         clientId,
		"acks":              "all",
	})
	if err != nil {
		log.Printf("Error on producer: %s\n", err.Error())
		return nil, err
	}
	kafkaProducer = p
	return p, nil
}

// KafkaEnabled reports whether a broker is configured. Booking events are
// best-effort notifications; without a broker they are skipped, never queued.
func KafkaEnabled() bool {
	return os.Getenv("KAFKA_BROKER") != ""
}

func KafkaProduceMessage(clientId string, topic string, payload map[string]any) error {
	p, err := GetKafkaProducer(clientId)
	if err != nil {
		return err
	}
	value, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling payload for topic %s: %s\n", topic, err.Error())
		return err
	}
	err = p.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          value,
	}, nil)
	if err != nil {
		log.Printf("Error producing message to %s: %s\n", topic, err.Error())
		return err
	}
	return nil
}

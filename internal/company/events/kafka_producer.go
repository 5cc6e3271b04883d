package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gartstein/companyapi/internal/company/models"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

var jsonMarshal = json.Marshal

// dialKafka and bootstrapTimeout are swapped in tests.
var (
	dialKafka        = kafka.Dial
	bootstrapTimeout = 30 * time.Second
)

type EventType string

const (
	CompanyCreated   EventType = "company_created"
	CompanyUpdated   EventType = "company_updated"
	CompanyDeleted   EventType = "company_deleted"
	CompaniesCleared EventType = "companies_cleared"
	EmployeeCreated  EventType = "employee_created"
	EmployeeUpdated  EventType = "employee_updated"
	EmployeeDeleted  EventType = "employee_deleted"
)

const queueSize = 1000

// Event describes a change to the registry. Company is set for company
// events, Employee for employee events.
type Event struct {
	Type      EventType        `json:"type"`
	CompanyID string           `json:"companyID,omitempty"`
	Company   *models.Company  `json:"company,omitempty"`
	Employee  *models.Employee `json:"employee,omitempty"`
}

type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Producer struct {
	writer    KafkaWriter
	events    chan Event
	logger    *zap.Logger
	closeChan chan struct{}
}

// NewProducer ensures topic exists, retrying the broker connection with
// exponential backoff, then starts the delivery loop.
func NewProducer(brokers []string, logger *zap.Logger, topic string) (*Producer, error) {
	logger = logger.Named("kafka_producer")

	retry := backoff.NewExponentialBackOff()
	retry.MaxElapsedTime = bootstrapTimeout
	err := backoff.RetryNotify(func() error {
		conn, err := dialKafka("tcp", brokers[0])
		if err != nil {
			return err
		}
		defer conn.Close()

		err = conn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     3,
			ReplicationFactor: 1,
		})
		if err != nil {
			logger.Warn("failed to create topic (may already exist)", zap.Error(err))
		}
		return nil
	}, retry, func(err error, wait time.Duration) {
		logger.Warn("Kafka broker not reachable, retrying",
			zap.Error(err),
			zap.Duration("backoff", wait),
		)
	})
	if err != nil {
		return nil, err
	}

	p := newProducer(&kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.Hash{},
		Topic:    topic,
	}, logger)

	go p.eventLoop()
	return p, nil
}

func newProducer(writer KafkaWriter, logger *zap.Logger) *Producer {
	return &Producer{
		writer:    writer,
		events:    make(chan Event, queueSize),
		logger:    logger,
		closeChan: make(chan struct{}),
	}
}

// Produce queues event for delivery. It never blocks; when the queue is full
// the event is dropped and logged.
func (p *Producer) Produce(event Event) {
	select {
	case p.events <- event:
	default:
		p.logger.Warn("Kafka producer queue full, dropping event",
			zap.String("event_type", string(event.Type)),
			zap.String("company_id", event.CompanyID),
		)
	}
}

func (p *Producer) eventLoop() {
	for {
		select {
		case event := <-p.events:
			p.sendEvent(context.Background(), event)
		case <-p.closeChan:
			return
		}
	}
}

func (p *Producer) sendEvent(ctx context.Context, event Event) {
	value, err := jsonMarshal(event)
	if err != nil {
		p.logger.Error("Failed to serialize event",
			zap.Error(err),
			zap.String("company_id", event.CompanyID),
		)
		return
	}
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.CompanyID),
		Value: value,
	})
	if err != nil {
		p.logger.Error("Failed to produce event",
			zap.Error(err),
			zap.String("event_type", string(event.Type)),
			zap.String("company_id", event.CompanyID),
		)
	}
}

func (p *Producer) Close() {
	close(p.closeChan)
	if err := p.writer.Close(); err != nil {
		p.logger.Error("Failed to close Kafka writer", zap.Error(err))
	}
}

// NopProducer discards events. Used when no brokers are configured.
type NopProducer struct{}

func (NopProducer) Produce(Event) {}

func (NopProducer) Close() {}

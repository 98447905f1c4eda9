package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"ms-booking/internal/config"
	"ms-booking/internal/logger"
	"ms-booking/internal/models"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, value []byte) error
}

// Producer streams booking events to Kafka, keyed by booking id.
type Producer struct {
	Publisher Publisher
	Topics    config.TopicConfig
	Logger    *logger.Logger
}

func NewProducer(publisher Publisher, topics config.TopicConfig, log *logger.Logger) *Producer {
	return &Producer{Publisher: publisher, Topics: topics, Logger: log}
}

// PublishBookingCreated streams the booking creation event to Kafka
func (p *Producer) PublishBookingCreated(ctx context.Context, booking models.Booking) error {
	event := models.NewBookingEvent(models.BookingEventCreated, booking, nil)
	return p.publish(ctx, p.Topics.BookingCreated, event)
}

// PublishBookingChanged streams the room change event to Kafka
func (p *Producer) PublishBookingChanged(ctx context.Context, booking models.Booking, previousRoomID int64) error {
	event := models.NewBookingEvent(models.BookingEventChanged, booking, &previousRoomID)
	return p.publish(ctx, p.Topics.BookingChanged, event)
}

func (p *Producer) publish(ctx context.Context, topic string, event models.BookingEvent) error {
	msgBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", event.Type, err)
	}

	p.Logger.LogKafka("PUBLISH", topic, string(msgBytes))

	if err := p.Publisher.Publish(ctx, topic, strconv.FormatInt(event.BookingID, 10), msgBytes); err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}
	return nil
}

package events

import (
	"context"
	"fmt"
	"log/slog"
)

// CustomerCreatedLogger logs every CustomerCreated event. Name tells two
// instances apart when several are registered for the same type.
type CustomerCreatedLogger struct {
	Logger *slog.Logger
	Name   string
}

// Handle implements Handler
func (h *CustomerCreatedLogger) Handle(ctx context.Context, event Event) error {
	h.Logger.InfoContext(ctx, "customer created",
		"handler", h.Name,
		"event_type", event.EventType())
	return nil
}

// CustomerAddressChangedLogger logs the new address of a customer.
type CustomerAddressChangedLogger struct {
	Logger *slog.Logger
}

// Handle implements Handler
func (h *CustomerAddressChangedLogger) Handle(ctx context.Context, event Event) error {
	data, ok := event.EventData().(CustomerData)
	if !ok {
		return fmt.Errorf("%w: %s carries %T", ErrUnexpectedEvent, event.EventType(), event.EventData())
	}
	h.Logger.InfoContext(ctx, "customer address changed",
		"customer_id", data.ID,
		"name", data.Name,
		"address", data.Address)
	return nil
}

// Message is an outgoing notification email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// MailSender delivers messages. Delivery itself lives outside this module.
type MailSender interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailSender "sends" mail by logging it.
type LogMailSender struct {
	Logger *slog.Logger
}

// Send implements MailSender
func (s *LogMailSender) Send(ctx context.Context, msg Message) error {
	s.Logger.InfoContext(ctx, "mail sent", "to", msg.To, "subject", msg.Subject)
	return nil
}

// ProductCreatedMailer emails a notice for every new product.
type ProductCreatedMailer struct {
	Sender MailSender
	To     string
}

// Handle implements Handler
func (h *ProductCreatedMailer) Handle(ctx context.Context, event Event) error {
	data, ok := event.EventData().(ProductData)
	if !ok {
		return fmt.Errorf("%w: %s carries %T", ErrUnexpectedEvent, event.EventType(), event.EventData())
	}
	msg := Message{
		To:      h.To,
		Subject: fmt.Sprintf("New product: %s", data.Name),
		Body:    fmt.Sprintf("%s (%s) is now available for %s.", data.Name, data.Description, data.Price.StringFixed(2)),
	}
	if err := h.Sender.Send(ctx, msg); err != nil {
		return fmt.Errorf("failed to send product mail: %w", err)
	}
	return nil
}

// OrderLogger logs order events.
type OrderLogger struct {
	Logger *slog.Logger
}

// Handle implements Handler
func (h *OrderLogger) Handle(ctx context.Context, event Event) error {
	data, ok := event.EventData().(OrderData)
	if !ok {
		return fmt.Errorf("%w: %s carries %T", ErrUnexpectedEvent, event.EventType(), event.EventData())
	}
	h.Logger.InfoContext(ctx, "order event",
		"event_type", event.EventType(),
		"order_id", data.OrderID,
		"customer_id", data.CustomerID,
		"items", data.ItemCount,
		"total", data.Total.String())
	return nil
}

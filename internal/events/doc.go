// Package events provides the domain event dispatcher.
//
// A Dispatcher maps event type names to ordered lists of Handlers. Producers
// publish through Notify without knowing who listens; consumers register and
// unregister at any time:
//
//	d := events.NewDispatcher(events.WithLogger(logger))
//	d.Register(events.CustomerCreatedType, &events.CustomerCreatedLogger{Logger: logger, Name: "audit"})
//
//	err := d.Notify(ctx, events.NewCustomerCreated(events.CustomerData{
//	    ID:   "123",
//	    Name: "Customer 1",
//	}))
//
// # Delivery
//
// Notify is synchronous. Handlers run in registration order and all receive
// the same event value. A handler that returns an error or panics does not
// stop the chain; every failure is reported as a *HandlerError and the
// failures are joined into Notify's return value.
//
// # Registry semantics
//
//   - Register appends, so a handler registered twice runs twice.
//   - Unregister removes the first equal handler (==). Unknown types or
//     handlers are ignored. The type stays known even with no handlers left.
//   - UnregisterAll forgets every type.
//
// The dispatcher is safe for concurrent use. Notify works on a snapshot of
// the handler list, so handlers may change the registry while running.
//
// # Mail
//
// ProductCreatedMailer sends through a MailSender. RetryMailSender wraps any
// sender with exponential backoff:
//
//	sender := &events.RetryMailSender{
//	    Next:   &events.LogMailSender{Logger: logger},
//	    Config: events.DefaultRetryConfig(),
//	}
//
// There is no global dispatcher: the composition root creates one and passes
// it to producers and consumers.
package events

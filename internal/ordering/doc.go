// Package ordering applies changes to stored orders and announces them.
//
// Service loads an order through the repository, applies the change on the
// aggregate, stores it, and only then publishes the matching event:
//
//	PlaceOrder      -> OrderPlacedEvent
//	ChangeCustomer  -> OrderCustomerChangedEvent
//	ReplaceItems    -> OrderItemsReplacedEvent
//
// A change rejected by the aggregate or by storage publishes nothing. When
// handlers fail after a successful write the change stays stored and the
// returned error matches ErrNotifyFailed.
package ordering

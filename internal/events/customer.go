package events

// Event type names for customer events
const (
	CustomerCreatedType        = "CustomerCreatedEvent"
	CustomerAddressChangedType = "CustomerChangeAddressEvent"
)

// CustomerData is the payload of customer events.
type CustomerData struct {
	ID      string
	Name    string
	Address string
}

// CustomerCreated is published after a customer record is created.
type CustomerCreated struct {
	Metadata
	Data CustomerData
}

// NewCustomerCreated stamps a new CustomerCreated event.
func NewCustomerCreated(data CustomerData) *CustomerCreated {
	return &CustomerCreated{Metadata: newMetadata(), Data: data}
}

func (e *CustomerCreated) EventType() string { return CustomerCreatedType }
func (e *CustomerCreated) EventData() any    { return e.Data }

// CustomerAddressChanged is published after a customer's address changes.
type CustomerAddressChanged struct {
	Metadata
	Data CustomerData
}

// NewCustomerAddressChanged stamps a new CustomerAddressChanged event.
func NewCustomerAddressChanged(data CustomerData) *CustomerAddressChanged {
	return &CustomerAddressChanged{Metadata: newMetadata(), Data: data}
}

func (e *CustomerAddressChanged) EventType() string { return CustomerAddressChangedType }
func (e *CustomerAddressChanged) EventData() any    { return e.Data }

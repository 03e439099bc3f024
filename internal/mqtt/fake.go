package mqtt

// FakePublisher records published messages for test assertions.
type FakePublisher struct {
	// Messages contains all timer events that were published.
	Messages []Message

	// Payloads contains the JSON payloads that were published.
	Payloads [][]byte

	// PublishError, if set, will be returned by Publish.
	PublishError error

	// Closed tracks if Close was called.
	Closed bool
}

// NewFakePublisher creates a FakePublisher for testing.
func NewFakePublisher() *FakePublisher {
	return &FakePublisher{}
}

// Publish records the message.
func (f *FakePublisher) Publish(message Message) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	payload, err := FormatPayload(message)
	if err != nil {
		return err
	}
	f.Messages = append(f.Messages, message)
	f.Payloads = append(f.Payloads, payload)
	return nil
}

// Close marks the publisher as closed.
func (f *FakePublisher) Close() error {
	f.Closed = true
	return nil
}

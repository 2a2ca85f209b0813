package mqtt

// FakeClient records published messages and lets tests script inbound
// classification updates.
type FakeClient struct {
	// Reports contains all sensor reports that were published.
	Reports []Report

	// ReportPayloads contains the JSON payloads that were published.
	ReportPayloads [][]byte

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SystemPayloads contains the JSON payloads for system events.
	SystemPayloads [][]byte

	// PublishError, if set, will be returned by PublishReport.
	PublishError error

	// PublishSystemError, if set, will be returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool

	updates chan Update
}

// NewFakeClient creates a FakeClient for testing.
func NewFakeClient() *FakeClient {
	return &FakeClient{updates: make(chan Update, 16)}
}

// Push queues an inbound update as if it arrived from the broker.
func (f *FakeClient) Push(u Update) {
	f.updates <- u
}

// Updates delivers the scripted updates.
func (f *FakeClient) Updates() <-chan Update {
	return f.updates
}

// PublishReport records the sensor report.
func (f *FakeClient) PublishReport(r Report) error {
	if f.PublishError != nil {
		return f.PublishError
	}

	f.Reports = append(f.Reports, r)

	payload, err := FormatReport(r)
	if err != nil {
		return err
	}
	f.ReportPayloads = append(f.ReportPayloads, payload)
	return nil
}

// PublishSystem records the system event.
func (f *FakeClient) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}

	f.SystemEvents = append(f.SystemEvents, event)

	payload, err := FormatSystemPayload(event)
	if err != nil {
		return err
	}
	f.SystemPayloads = append(f.SystemPayloads, payload)
	return nil
}

// IsConnected reports whether the fake client is "connected".
func (f *FakeClient) IsConnected() bool {
	return f.Connected
}

// Close marks the client as closed.
func (f *FakeClient) Close() error {
	f.Closed = true
	return nil
}

// Reset clears recorded messages.
func (f *FakeClient) Reset() {
	f.Reports = nil
	f.ReportPayloads = nil
	f.SystemEvents = nil
	f.SystemPayloads = nil
	f.Closed = false
	f.PublishError = nil
	f.PublishSystemError = nil
	f.Connected = false
}

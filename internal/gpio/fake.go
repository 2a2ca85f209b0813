package gpio

import "errors"

// FakeIO is a test double implementing both Reader and Writer. Reads
// consume scripted samples; writes are recorded for assertions.
type FakeIO struct {
	// Samples contains scripted input values to return. Each call to
	// Read consumes the next sample; when exhausted, the last sample
	// repeats.
	Samples []Inputs

	// Writes records every output vector passed to Write.
	Writes []Outputs

	// ReadError, if set, will be returned by Read.
	ReadError error

	// WriteError, if set, will be returned by Write.
	WriteError error

	// Closed tracks if Close was called.
	Closed bool

	index int
}

// NewFakeIO creates a FakeIO with the given input samples.
func NewFakeIO(samples []Inputs) *FakeIO {
	return &FakeIO{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeIO) Read() (Inputs, error) {
	if f.ReadError != nil {
		return Inputs{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return Inputs{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	return sample, nil
}

// Write records the output vector.
func (f *FakeIO) Write(out Outputs) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, out)
	return nil
}

// LastWrite returns the most recent output vector and whether any
// write happened.
func (f *FakeIO) LastWrite() (Outputs, bool) {
	if len(f.Writes) == 0 {
		return Outputs{}, false
	}
	return f.Writes[len(f.Writes)-1], true
}

// Close marks the fake as closed.
func (f *FakeIO) Close() error {
	f.Closed = true
	return nil
}

// Reset rewinds the sample script and clears recorded writes.
func (f *FakeIO) Reset() {
	f.index = 0
	f.Writes = nil
	f.Closed = false
}

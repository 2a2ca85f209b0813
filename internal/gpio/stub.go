//go:build !linux

package gpio

import "errors"

// RealIO is not available on non-Linux platforms.
type RealIO struct{}

// NewRealIO returns an error on non-Linux platforms.
func NewRealIO(pins Pins, lightPath, pwmDir string) (*RealIO, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Read is not implemented on non-Linux platforms.
func (io *RealIO) Read() (Inputs, error) {
	return Inputs{}, errors.New("gpio: not supported")
}

// Write is not implemented on non-Linux platforms.
func (io *RealIO) Write(Outputs) error {
	return errors.New("gpio: not supported")
}

// Close is not implemented on non-Linux platforms.
func (io *RealIO) Close() error {
	return nil
}

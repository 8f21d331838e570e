// Package pcf8591 provides a driver for the PCF8591 4-channel 8-bit I²C ADC,
// used as an external CV expander.
//
// Every read returns the result of the previous conversion first, so the
// driver always reads one extra byte and drops it.
//
// NOTE: I2C.Tx MUST perform a write followed by a repeated-start read when both
// w and r are provided, without releasing the bus.
package pcf8591

import (
	"tinygo.org/x/drivers"
)

// Address is the base I²C address with A0..A2 tied low.
const Address = 0x48

const (
	Channels = 4

	ctrlAutoIncrement = 0x04
	ctrlAnalogOut     = 0x40
)

// Config controls non-hardware behaviour. All fields are optional.
type Config struct {
	// Address defaults to 0x48 if zero.
	Address uint16
	// AnalogOut keeps the DAC output enabled, which also keeps the internal
	// oscillator running between conversions.
	AnalogOut bool
}

type Device struct {
	bus     drivers.I2C
	Address uint16

	ctrl byte
	buf  [1 + Channels]byte
}

// New creates a Device on an already configured bus. It does not touch the chip.
func New(bus drivers.I2C) Device {
	return Device{bus: bus, Address: Address}
}

func (d *Device) Configure(cfg Config) {
	if cfg.Address != 0 {
		d.Address = cfg.Address
	}
	d.ctrl = 0
	if cfg.AnalogOut {
		d.ctrl |= ctrlAnalogOut
	}
}

// ReadAll converts all four inputs in one auto-incrementing transaction.
func (d *Device) ReadAll(dst *[Channels]uint8) error {
	w := [1]byte{d.ctrl | ctrlAutoIncrement}
	if err := d.bus.Tx(d.Address, w[:], d.buf[:]); err != nil {
		return err
	}
	copy(dst[:], d.buf[1:])
	return nil
}

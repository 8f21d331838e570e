package platform

import (
	"sync/atomic"

	"cvexpander-go/drivers/pcf8591"
	"cvexpander-go/errcode"
	"cvexpander-go/x/mathx"
)

type pcfReader interface {
	ReadAll(dst *[pcf8591.Channels]uint8) error
}

// Expander adapts a PCF8591 to sampler.ADC. Refresh converts all inputs in
// one auto-incrementing transfer and Get serves from that batch, rescaled
// from 0..255 to 0..fullScale. A failed transfer keeps the previous batch
// and is counted.
type Expander struct {
	dev       pcfReader
	fullScale uint16
	last      [pcf8591.Channels]uint16
	errs      atomic.Uint32
}

func NewExpander(dev pcfReader, fullScale uint16) *Expander {
	return &Expander{dev: dev, fullScale: fullScale}
}

func (e *Expander) Configure(input int) error {
	if input < 0 || input >= pcf8591.Channels {
		return errcode.Wrap(errcode.UnknownChannel, "pcf8591", "input out of range")
	}
	return nil
}

func (e *Expander) Refresh() {
	var raw [pcf8591.Channels]uint8
	if err := e.dev.ReadAll(&raw); err != nil {
		e.errs.Add(1)
		return
	}
	for i, v := range raw {
		e.last[i] = mathx.MapU16(uint16(v), 0, 255, 0, e.fullScale)
	}
}

func (e *Expander) Get(input int) uint16 {
	if input < 0 || input >= pcf8591.Channels {
		return 0
	}
	return e.last[input]
}

// Errors reports the number of failed transfers so far.
func (e *Expander) Errors() uint32 { return e.errs.Load() }

//go:build rp2040

package platform

import (
	"machine"

	"cvexpander-go/drivers/pcf8591"
	"cvexpander-go/errcode"
	"cvexpander-go/services/cv/sampler"
	"cvexpander-go/x/mathx"
	"cvexpander-go/x/strx"
)

// RP2040 ADC inputs 0..3 sit on GP26..GP29.
var adcPins = [...]machine.Pin{machine.ADC0, machine.ADC1, machine.ADC2, machine.ADC3}

// OnChip reads the RP2040 ADC. machine.ADC returns 16-bit left-aligned
// samples; they are rescaled to 0..fullScale.
type OnChip struct {
	adcs      [len(adcPins)]machine.ADC
	fullScale uint16
}

func NewOnChip(fullScale uint16) *OnChip {
	machine.InitADC()
	o := &OnChip{fullScale: fullScale}
	for i, p := range adcPins {
		o.adcs[i] = machine.ADC{Pin: p}
	}
	return o
}

func (o *OnChip) Configure(input int) error {
	if input < 0 || input >= len(o.adcs) {
		return errcode.Wrap(errcode.UnknownChannel, "adc", "input out of range")
	}
	o.adcs[input].Configure(machine.ADCConfig{})
	return nil
}

func (o *OnChip) Get(input int) uint16 {
	if input < 0 || input >= len(o.adcs) {
		return 0
	}
	// Keep the 12 significant bits before rescaling.
	v := o.adcs[input].Get() >> 4
	return mathx.MapU16(v, 0, 4095, 0, o.fullScale)
}

var i2c0Ready bool

func expanderBus() *machine.I2C {
	b := machine.I2C0
	if !i2c0Ready {
		_ = b.Configure(machine.I2CConfig{
			Frequency: 400 * machine.KHz,
			SDA:       machine.I2C0_SDA_PIN,
			SCL:       machine.I2C0_SCL_PIN,
		})
		i2c0Ready = true
	}
	return b
}

// Open returns the analog source named by source.
func Open(source string, fullScale uint16) (sampler.ADC, error) {
	switch strx.Or(source, SourceADC) {
	case SourceADC:
		return NewOnChip(fullScale), nil
	case SourcePCF8591:
		dev := pcf8591.New(expanderBus())
		dev.Configure(pcf8591.Config{})
		return NewExpander(&dev, fullScale), nil
	default:
		return nil, errcode.Wrap(errcode.Unsupported, "platform", "source "+source)
	}
}

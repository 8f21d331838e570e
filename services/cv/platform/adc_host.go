//go:build !rp2040

package platform

import (
	"sync"

	"cvexpander-go/errcode"
	"cvexpander-go/services/cv/sampler"
	"cvexpander-go/x/strx"
)

// HostADC is a settable analog source for host runs and tests.
type HostADC struct {
	mu         sync.RWMutex
	levels     []uint16
	configured []bool
}

func NewHostADC(inputs int) *HostADC {
	return &HostADC{levels: make([]uint16, inputs), configured: make([]bool, inputs)}
}

func (a *HostADC) Configure(input int) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if input < 0 || input >= len(a.levels) {
		return errcode.Wrap(errcode.UnknownChannel, "adc", "input out of range")
	}
	a.configured[input] = true
	return nil
}

func (a *HostADC) Get(input int) uint16 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if input < 0 || input >= len(a.levels) {
		return 0
	}
	return a.levels[input]
}

// Set drives an input to v.
func (a *HostADC) Set(input int, v uint16) {
	a.mu.Lock()
	if input >= 0 && input < len(a.levels) {
		a.levels[input] = v
	}
	a.mu.Unlock()
}

func (a *HostADC) Configured(input int) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return input >= 0 && input < len(a.configured) && a.configured[input]
}

// Default is the process-wide host source handed out by Open.
var Default = NewHostADC(4)

// Open returns the analog source named by source. Only "adc" exists on host.
func Open(source string, fullScale uint16) (sampler.ADC, error) {
	switch strx.Or(source, SourceADC) {
	case SourceADC:
		return Default, nil
	default:
		return nil, errcode.Wrap(errcode.Unsupported, "platform", "source "+source)
	}
}

package config

import "cvexpander-go/types"

// Build-time configuration per device ID (the value placed in ctx under
// CtxDeviceKey). Bindings are 1-based CV inputs; 0 leaves a parameter unbound.

var (
	stockHits   = []types.Binding{1, 3, 0, 0}
	stockOffset = []types.Binding{2, 4, 0, 0}
	stockLength = []int{16, 16, 16, 16}
)

var embeddedConfigs = map[string]types.CVConfig{
	// On-chip ADC on GP26..GP29.
	"pico": {
		Inputs:    []int{0, 1, 2, 3},
		Hits:      stockHits,
		Offset:    stockOffset,
		FullScale: 1023,
		Lengths:   stockLength,
		PollMS:    10,
		Source:    "adc",
	},
	// PCF8591 expander on i2c0.
	"pico_pcf8591": {
		Inputs:    []int{0, 1, 2, 3},
		Hits:      stockHits,
		Offset:    stockOffset,
		FullScale: 1023,
		Lengths:   stockLength,
		PollMS:    20,
		Source:    "pcf8591",
	},
}

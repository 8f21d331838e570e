// Package platform supplies the analog sources behind the CV sampler.
// Build tags pick the on-chip implementation; the expander adaptor is shared.
package platform

import "cvexpander-go/services/cv/sampler"

// Source names accepted by Open.
const (
	SourceADC     = "adc"
	SourcePCF8591 = "pcf8591"
)

var (
	_ sampler.ADC = (*Expander)(nil)
)

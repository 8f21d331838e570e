package sampler

import (
	"strconv"

	"cvexpander-go/errcode"
	"cvexpander-go/types"
)

type Binding = types.Binding

const Unbound = types.Unbound

// Config is fixed for the lifetime of a Sampler.
type Config struct {
	// Inputs lists ADC input ids; CV input n reads Inputs[n-1].
	Inputs []int
	// Hits and Offset bind each rhythm channel's parameters to a CV input.
	Hits   []Binding
	Offset []Binding
	// FullScale is the highest raw sample value.
	FullScale uint16
}

// DefaultConfig is the stock four-input expander: channel 0 takes hits from
// CV1 and offset from CV2, channel 1 takes hits from CV3 and offset from CV4.
func DefaultConfig() Config {
	return Config{
		Inputs:    []int{0, 1, 2, 3},
		Hits:      []Binding{1, 3, 0, 0},
		Offset:    []Binding{2, 4, 0, 0},
		FullScale: 1023,
	}
}

// Channels returns the number of rhythm channels.
func (c Config) Channels() int { return len(c.Hits) }

func (c Config) Validate() error {
	const op = "sampler"
	if len(c.Inputs) == 0 {
		return errcode.Wrap(errcode.InvalidConfig, op, "no inputs")
	}
	if c.FullScale == 0 {
		return errcode.Wrap(errcode.InvalidConfig, op, "full scale is zero")
	}
	if len(c.Hits) != len(c.Offset) {
		return errcode.Wrap(errcode.InvalidConfig, op, "hits/offset channel count mismatch")
	}
	for i, b := range c.Hits {
		if int(b) > len(c.Inputs) {
			return errcode.Wrap(errcode.InvalidBinding, op, "hits["+strconv.Itoa(i)+"]="+strconv.Itoa(int(b)))
		}
	}
	for i, b := range c.Offset {
		if int(b) > len(c.Inputs) {
			return errcode.Wrap(errcode.InvalidBinding, op, "offset["+strconv.Itoa(i)+"]="+strconv.Itoa(int(b)))
		}
	}
	return nil
}

// Package sampler reads the CV inputs and maps them onto per-channel hit
// count and offset values.
//
// A Sampler is not safe for concurrent use. Its owner calls Sample from a
// single loop and hands out copies via Snapshot.
package sampler

import (
	"cvexpander-go/errcode"
	"cvexpander-go/types"
	"cvexpander-go/x/mathx"
	"cvexpander-go/x/timex"
)

// ADC is the analog source. Get never fails; readings are bounded by hardware.
type ADC interface {
	Configure(input int) error
	Get(input int) uint16
}

// Batcher is implemented by sources that convert every input in one
// transfer. Refresh is called once at the start of each Sample, before Get.
type Batcher interface {
	Refresh()
}

// Lengths exposes the externally owned sequence length of each rhythm channel.
type Lengths interface {
	SeqLength(ch int) int
}

// LengthTable is a plain Lengths backed by a slice.
type LengthTable []int

func (t LengthTable) SeqLength(ch int) int {
	if ch < 0 || ch >= len(t) {
		return 0
	}
	return t[ch]
}

type Sampler struct {
	cfg     Config
	adc     ADC
	lengths Lengths

	raw    []uint16
	hits   []int
	offset []int
	dirty  []bool // per channel, set by the last Sample
}

func New(cfg Config, adc ADC, lengths Lengths) (*Sampler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if adc == nil || lengths == nil {
		return nil, errcode.Wrap(errcode.InvalidConfig, "sampler", "nil adc or lengths")
	}
	n := cfg.Channels()
	return &Sampler{
		cfg:     cfg,
		adc:     adc,
		lengths: lengths,
		raw:     make([]uint16, len(cfg.Inputs)),
		hits:    make([]int, n),
		offset:  make([]int, n),
		dirty:   make([]bool, n),
	}, nil
}

// Setup configures every input and seeds the stored values with one pass.
func (s *Sampler) Setup() error {
	for _, in := range s.cfg.Inputs {
		if err := s.adc.Configure(in); err != nil {
			return err
		}
	}
	s.Sample()
	return nil
}

// Sample reads all inputs, remaps the bound parameters and reports whether
// any of them changed since the previous call.
func (s *Sampler) Sample() bool {
	if b, ok := s.adc.(Batcher); ok {
		b.Refresh()
	}
	for i, in := range s.cfg.Inputs {
		s.raw[i] = s.adc.Get(in)
	}

	changed := false
	for ch := range s.hits {
		s.dirty[ch] = false
		l := s.lengths.SeqLength(ch)
		if s.update(s.hits, ch, s.cfg.Hits[ch], l) {
			s.dirty[ch] = true
		}
		if s.update(s.offset, ch, s.cfg.Offset[ch], l) {
			s.dirty[ch] = true
		}
		changed = changed || s.dirty[ch]
	}
	return changed
}

func (s *Sampler) update(dst []int, ch int, b Binding, length int) bool {
	if b == Unbound {
		return false
	}
	v := mathx.MapSym(s.raw[b-1], s.cfg.FullScale, length)
	if dst[ch] == v {
		return false
	}
	dst[ch] = v
	return true
}

func (s *Sampler) Config() Config { return s.cfg }
func (s *Sampler) Channels() int  { return len(s.hits) }

func (s *Sampler) Hits(ch int) int   { return at(s.hits, ch) }
func (s *Sampler) Offset(ch int) int { return at(s.offset, ch) }

// Raw returns the last sample of CV input n (1-based).
func (s *Sampler) Raw(n int) uint16 {
	if n < 1 || n > len(s.raw) {
		return 0
	}
	return s.raw[n-1]
}

// Changed lists the rhythm channels updated by the last Sample.
func (s *Sampler) Changed() []int {
	var out []int
	for ch, d := range s.dirty {
		if d {
			out = append(out, ch)
		}
	}
	return out
}

// Snapshot copies the current state.
func (s *Sampler) Snapshot() types.CVParams {
	return types.CVParams{
		Raw:    append([]uint16(nil), s.raw...),
		Hits:   append([]int(nil), s.hits...),
		Offset: append([]int(nil), s.offset...),
		TSms:   timex.NowMs(),
	}
}

func at(v []int, i int) int {
	if i < 0 || i >= len(v) {
		return 0
	}
	return v[i]
}

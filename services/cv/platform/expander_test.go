package platform

import (
	"errors"
	"testing"

	"cvexpander-go/drivers/pcf8591"
	"cvexpander-go/errcode"
	"cvexpander-go/services/cv/sampler"
)

type fakePCF struct {
	levels    [pcf8591.Channels]uint8
	err       error
	transfers int
}

func (f *fakePCF) ReadAll(dst *[pcf8591.Channels]uint8) error {
	f.transfers++
	if f.err != nil {
		return f.err
	}
	*dst = f.levels
	return nil
}

func TestExpander_RescalesToFullScale(t *testing.T) {
	dev := &fakePCF{levels: [pcf8591.Channels]uint8{0, 255, 128, 64}}
	e := NewExpander(dev, 1023)
	e.Refresh()

	want := []uint16{0, 1023, 513, 256}
	for in, w := range want {
		if got := e.Get(in); got != w {
			t.Fatalf("input %d: got %d, want %d", in, got, w)
		}
	}
}

func TestExpander_HoldsLastGoodOnError(t *testing.T) {
	dev := &fakePCF{levels: [pcf8591.Channels]uint8{0, 255, 0, 0}}
	e := NewExpander(dev, 1023)
	e.Refresh()

	dev.err = errors.New("nack")
	dev.levels[1] = 0
	e.Refresh()
	if got := e.Get(1); got != 1023 {
		t.Fatalf("got %d after bus error, want held 1023", got)
	}
	if e.Errors() != 1 {
		t.Fatalf("Errors() = %d, want 1", e.Errors())
	}
}

func TestExpander_OneTransferPerSample(t *testing.T) {
	dev := &fakePCF{levels: [pcf8591.Channels]uint8{0, 0, 255, 0}}
	e := NewExpander(dev, 1023)
	cfg := sampler.Config{
		Inputs:    []int{0, 1, 2, 3},
		Hits:      []sampler.Binding{2},
		Offset:    []sampler.Binding{3},
		FullScale: 1023,
	}
	s, err := sampler.New(cfg, e, sampler.LengthTable{8})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Setup(); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	s.Sample()
	if dev.transfers != 2 {
		t.Fatalf("transfers = %d, want one per Sample (2)", dev.transfers)
	}
	if s.Hits(0) != 8 || s.Offset(0) != -8 {
		t.Fatalf("hits=%d offset=%d, want 8 and -8", s.Hits(0), s.Offset(0))
	}
}

func TestExpander_ConfigureRange(t *testing.T) {
	e := NewExpander(&fakePCF{}, 1023)
	if err := e.Configure(3); err != nil {
		t.Fatalf("Configure(3): %v", err)
	}
	if err := e.Configure(4); errcode.Of(err) != errcode.UnknownChannel {
		t.Fatalf("Configure(4) = %v, want unknown_channel", err)
	}
	if e.Get(7) != 0 {
		t.Fatal("out-of-range Get must return 0")
	}
}

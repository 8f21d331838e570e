// Package cv runs the CV sampler as a bus service.
//
// The service goroutine is the only owner of the sampler. Other services
// see its state through retained "cv/params" snapshots.
package cv

import (
	"context"
	"time"

	"cvexpander-go/bus"
	"cvexpander-go/errcode"
	"cvexpander-go/services/cv/sampler"
	"cvexpander-go/types"
	"cvexpander-go/x/timex"
)

const (
	defaultPoll = 10 * time.Millisecond
	// maxChannels bounds the rhythm channels addressable on seq/length/<ch>.
	maxChannels = 16
)

// OpenFunc resolves a configured source name to an analog source.
type OpenFunc func(source string, fullScale uint16) (sampler.ADC, error)

type Service struct {
	conn *bus.Connection
	open OpenFunc

	smp     *sampler.Sampler
	lengths sampler.LengthTable
	// Lengths received on the bus override the configured initial ones.
	lenSet map[int]int

	tick  *time.Ticker
	tickC <-chan time.Time
}

func New(conn *bus.Connection, open OpenFunc) *Service {
	return &Service{conn: conn, open: open, lenSet: map[int]int{}}
}

type subs struct {
	cfg, length, ctrl *bus.Subscription
}

func (s *Service) subscribe() subs {
	return subs{
		cfg:    s.conn.Subscribe(TopicConfig),
		length: s.conn.Subscribe(topicLengths),
		ctrl:   s.conn.Subscribe(topicControl),
	}
}

// Start subscribes before returning, so requests published right after
// Start are queued for the loop, then runs the loop in a goroutine.
func (s *Service) Start(ctx context.Context) {
	sb := s.subscribe()
	go s.loop(ctx, sb)
}

// Run blocks until ctx is cancelled.
func (s *Service) Run(ctx context.Context) {
	s.loop(ctx, s.subscribe())
}

func (s *Service) loop(ctx context.Context, sb subs) {
	cfgSub, lenSub, ctrlSub := sb.cfg, sb.length, sb.ctrl
	defer s.conn.Unsubscribe(cfgSub)
	defer s.conn.Unsubscribe(lenSub)
	defer s.conn.Unsubscribe(ctrlSub)
	defer s.stopTicker()

	s.publishState("idle", "awaiting_config", nil)

	for {
		select {
		case <-ctx.Done():
			s.publishState("stopped", "context_cancelled", nil)
			return

		case msg := <-cfgSub.Channel():
			cfg, ok := msg.Payload.(types.CVConfig)
			if !ok {
				s.publishState("error", "config_decode_failed", errcode.InvalidPayload)
				continue
			}
			if err := s.applyConfig(cfg); err != nil {
				println("[cv] config rejected:", err.Error())
				// A rejected config leaves the service unconfigured.
				s.stopTicker()
				s.smp, s.lengths = nil, nil
				s.publishState("error", "apply_config_failed", err)
				continue
			}
			s.publishState("ready", "configured", nil)

		case msg := <-lenSub.Channel():
			s.handleLength(msg)

		case msg := <-ctrlSub.Channel():
			s.handleControl(msg)

		case <-s.tickC:
			s.poll()
		}
	}
}

func (s *Service) applyConfig(cfg types.CVConfig) error {
	sc := sampler.Config{
		Inputs:    cfg.Inputs,
		Hits:      cfg.Hits,
		Offset:    cfg.Offset,
		FullScale: cfg.FullScale,
	}
	if err := sc.Validate(); err != nil {
		return err
	}
	adc, err := s.open(cfg.Source, cfg.FullScale)
	if err != nil {
		return err
	}

	lengths := make(sampler.LengthTable, sc.Channels())
	copy(lengths, cfg.Lengths)
	for ch, l := range s.lenSet {
		if ch < len(lengths) {
			lengths[ch] = l
		}
	}

	smp, err := sampler.New(sc, adc, lengths)
	if err != nil {
		return err
	}
	if err := smp.Setup(); err != nil {
		return err
	}
	s.smp, s.lengths = smp, lengths
	s.conn.Publish(s.conn.NewMessage(TopicParams, smp.Snapshot(), true))

	s.stopTicker()
	s.tick = time.NewTicker(timex.Every(cfg.PollMS, defaultPoll))
	s.tickC = s.tick.C
	return nil
}

func (s *Service) stopTicker() {
	if s.tick != nil {
		s.tick.Stop()
		s.tick, s.tickC = nil, nil
	}
}

// poll samples once and publishes when a parameter moved.
func (s *Service) poll() bool {
	if s.smp == nil || !s.smp.Sample() {
		return false
	}
	snap := s.smp.Snapshot()
	s.conn.Publish(s.conn.NewMessage(TopicParams, snap, true))
	s.conn.Publish(s.conn.NewMessage(TopicChanged, types.CVChanged{Channels: s.smp.Changed(), TSms: snap.TSms}, false))
	return true
}

func (s *Service) handleLength(msg *bus.Message) {
	ch, ok := msg.Topic.At(2).(int)
	if !ok || ch < 0 || ch >= maxChannels || (s.smp != nil && ch >= len(s.lengths)) {
		println("[cv] bad length topic")
		return
	}
	l, ok := asInt(msg.Payload)
	if !ok || l < 0 {
		println("[cv] bad length payload for channel", ch)
		return
	}
	s.lenSet[ch] = l
	if ch < len(s.lengths) {
		s.lengths[ch] = l
	}
}

func (s *Service) handleControl(msg *bus.Message) {
	verb, _ := msg.Topic.At(2).(string)
	switch verb {
	case "read_now":
		if s.smp == nil {
			s.replyErr(msg, errcode.NotReady)
			return
		}
		if !s.poll() {
			// Unchanged values are still republished for the requester.
			s.conn.Publish(s.conn.NewMessage(TopicParams, s.smp.Snapshot(), true))
		}
		s.conn.Reply(msg, types.OKReply{OK: true}, false)
	default:
		s.replyErr(msg, errcode.Unsupported)
	}
}

func (s *Service) replyErr(msg *bus.Message, err error) {
	s.conn.Reply(msg, types.ErrorReply{OK: false, Error: string(errcode.Of(err))}, false)
}

func (s *Service) publishState(level, status string, err error) {
	st := types.ServiceState{Level: level, Status: status, TSms: timex.NowMs()}
	if err != nil {
		st.Error = string(errcode.Of(err))
	}
	s.conn.Publish(s.conn.NewMessage(TopicState, st, true))
}

func asInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int8:
		return int(x), true
	case int16:
		return int(x), true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint8:
		return int(x), true
	case uint16:
		return int(x), true
	case uint32:
		return int(x), true
	case float64:
		return int(x), true
	default:
		return 0, false
	}
}

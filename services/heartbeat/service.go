package heartbeat

import (
	"context"
	"time"

	"cvexpander-go/bus"
	"cvexpander-go/services/cv"
	"cvexpander-go/types"
	"cvexpander-go/x/strx"
)

var topicConfigHeartbeat = bus.T("config", "heartbeat")

// Service prints a periodic liveness line carrying the CV service state.
type Service struct {
	Interval time.Duration

	level string
	beats uint32
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	cfgSub := conn.Subscribe(topicConfigHeartbeat)
	stateSub := conn.Subscribe(cv.TopicState)
	defer conn.Unsubscribe(cfgSub)
	defer conn.Unsubscribe(stateSub)

	if s.Interval <= 0 {
		s.Interval = time.Second
	}
	tick := time.NewTicker(s.Interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			println("[hb] stopping")
			return
		case t := <-tick.C:
			s.beats++
			println("[hb]", t.Format("15:04:05"), "cv:", strx.Or(s.level, "unknown"))
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.ServiceState); ok {
				s.level = st.Level
				if st.Error != "" {
					println("[hb] cv error:", st.Status, st.Error)
				}
			}
		case msg := <-cfgSub.Channel():
			if sec, ok := msg.Payload.(int); ok && sec > 0 {
				s.Interval = time.Duration(sec) * time.Second
				tick.Reset(s.Interval)
				println("[hb] interval set to", sec, "seconds")
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

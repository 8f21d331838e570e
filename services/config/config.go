package config

import (
	"context"
	"errors"

	"cvexpander-go/bus"
	"cvexpander-go/types"
)

const (
	serviceName  = "config"
	CtxDeviceKey = "device" // context key used for device ID
)

var topicConfigCV = bus.T("config", "cv")

// EmbeddedConfigLookup allows overriding how configs are resolved.
var EmbeddedConfigLookup = func(device string) (types.CVConfig, bool) {
	c, ok := embeddedConfigs[device]
	return c, ok
}

type ConfigService struct {
	Name string
}

func NewConfigService() *ConfigService {
	return &ConfigService{Name: serviceName}
}

// publishConfig resolves the device's build-time config and publishes it retained.
func (s *ConfigService) publishConfig(ctx context.Context, conn *bus.Connection) error {
	device, _ := ctx.Value(CtxDeviceKey).(string)
	if device == "" {
		return errors.New("missing device ID in context")
	}
	cfg, ok := EmbeddedConfigLookup(device)
	if !ok {
		return errors.New("no embedded config for device: " + device)
	}
	conn.Publish(conn.NewMessage(topicConfigCV, cfg, true))
	return nil
}

// Start launches the config publisher in a goroutine.
func (s *ConfigService) Start(ctx context.Context, conn *bus.Connection) {
	go func() {
		if err := s.publishConfig(ctx, conn); err != nil {
			println("[config]", err.Error())
		}
	}()
}

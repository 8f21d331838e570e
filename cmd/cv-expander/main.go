package main

import (
	"context"
	"time"

	"cvexpander-go/bus"
	"cvexpander-go/services/config"
	"cvexpander-go/services/console"
	"cvexpander-go/services/cv"
	"cvexpander-go/services/cv/platform"
	"cvexpander-go/services/heartbeat"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("[main] boot, device:", deviceID)

	ctx := context.WithValue(context.Background(), config.CtxDeviceKey, deviceID)
	b := bus.NewBus(8)

	cv.New(b.NewConnection("cv"), platform.Open).Start(ctx)
	console.New(b.NewConnection("console"), openConsole()).Start(ctx)
	_ = (&heartbeat.Service{Interval: 5 * time.Second}).Start(ctx, b.NewConnection("heartbeat"))

	// Config last: every consumer is subscribed, though retained delivery
	// would cover a late subscriber too.
	config.NewConfigService().Start(ctx, b.NewConnection("config"))

	select {}
}

//go:build rp2040

package main

import (
	"machine"

	"cvexpander-go/services/console"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
)

const deviceID = "pico"

func openConsole() console.Port {
	u := uartx.UART0
	_ = u.Configure(uartx.UARTConfig{
		BaudRate: 115200,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	return u
}

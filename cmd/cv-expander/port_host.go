//go:build !rp2040

package main

import (
	"context"
	"io"
	"os"

	"cvexpander-go/services/console"
)

const deviceID = "pico"

// stdioPort feeds stdin chunks to the console and writes to stdout.
type stdioPort struct {
	in chan []byte
	io.Writer
}

func (p *stdioPort) RecvSomeContext(ctx context.Context, buf []byte) (int, error) {
	select {
	case <-ctx.Done():
		return 0, ctx.Err()
	case b, ok := <-p.in:
		if !ok {
			return 0, io.EOF
		}
		return copy(buf, b), nil
	}
}

func openConsole() console.Port {
	p := &stdioPort{in: make(chan []byte, 4), Writer: os.Stdout}
	go func() {
		defer close(p.in)
		for {
			buf := make([]byte, 32)
			n, err := os.Stdin.Read(buf)
			if n > 0 {
				p.in <- buf[:n]
			}
			if err != nil {
				return
			}
		}
	}()
	return p
}

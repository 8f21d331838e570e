// Package console is a line-oriented bench console over a serial port.
// It lets a bench operator set sequence lengths and watch CV parameters
// without the rest of the sequencer firmware.
//
//	len <ch> <n>   set the sequence length of rhythm channel ch
//	read           force an immediate CV poll
//	show           print the last CV parameters
//	help
package console

import (
	"context"
	"io"
	"strconv"
	"time"

	"cvexpander-go/bus"
	"cvexpander-go/services/cv"
	"cvexpander-go/types"

	"github.com/google/shlex"
)

const (
	maxLine     = 80
	readTimeout = 500 * time.Millisecond
)

// Port is a serial link; *uartx.UART satisfies it.
type Port interface {
	io.Writer
	RecvSomeContext(ctx context.Context, buf []byte) (int, error)
}

type Console struct {
	conn *bus.Connection
	port Port

	last    types.CVParams
	hasLast bool
	line    []byte
}

func New(conn *bus.Connection, port Port) *Console {
	return &Console{conn: conn, port: port, line: make([]byte, 0, maxLine)}
}

func (c *Console) Start(ctx context.Context) {
	params := c.conn.Subscribe(cv.TopicParams)
	go c.loop(ctx, params)
}

// Run blocks until ctx is cancelled or the port fails.
func (c *Console) Run(ctx context.Context) {
	c.loop(ctx, c.conn.Subscribe(cv.TopicParams))
}

func (c *Console) loop(ctx context.Context, params *bus.Subscription) {
	defer c.conn.Unsubscribe(params)

	lines := make(chan string, 4)
	go c.readLoop(ctx, lines)

	c.println("cv console ready")
	for {
		select {
		case <-ctx.Done():
			return
		case l, ok := <-lines:
			if !ok {
				return
			}
			c.exec(ctx, l)
		case m := <-params.Channel():
			if p, ok := m.Payload.(types.CVParams); ok {
				c.last, c.hasLast = p, true
				c.printParams(p)
			}
		}
	}
}

func (c *Console) readLoop(ctx context.Context, out chan<- string) {
	defer close(out)
	var buf [32]byte
	for {
		n, err := c.port.RecvSomeContext(ctx, buf[:])
		for _, b := range buf[:n] {
			switch b {
			case '\r', '\n':
				if len(c.line) == 0 {
					continue
				}
				select {
				case out <- string(c.line):
				case <-ctx.Done():
					return
				}
				c.line = c.line[:0]
			default:
				if len(c.line) < maxLine {
					c.line = append(c.line, b)
				}
			}
		}
		if err != nil {
			return
		}
	}
}

func (c *Console) exec(ctx context.Context, line string) {
	args, err := shlex.Split(line)
	if err != nil {
		c.println("err " + err.Error())
		return
	}
	if len(args) == 0 {
		return
	}
	switch args[0] {
	case "len":
		c.setLength(args[1:])
	case "read":
		c.readNow(ctx)
	case "show":
		if !c.hasLast {
			c.println("err no data")
			return
		}
		c.printParams(c.last)
	case "help":
		c.println("len <ch> <n> | read | show")
	default:
		c.println("err unknown command: " + args[0])
	}
}

func (c *Console) setLength(args []string) {
	if len(args) != 2 {
		c.println("err usage: len <ch> <n>")
		return
	}
	ch, err1 := strconv.Atoi(args[0])
	n, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil || ch < 0 || n < 0 {
		c.println("err bad number")
		return
	}
	c.conn.Publish(c.conn.NewMessage(cv.TopicLength(ch), n, true))
	c.println("ok")
}

func (c *Console) readNow(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	reply, err := c.conn.RequestWait(ctx, c.conn.NewMessage(cv.TopicReadNow, nil, false))
	if err != nil {
		c.println("err " + err.Error())
		return
	}
	if er, ok := reply.Payload.(types.ErrorReply); ok {
		c.println("err " + er.Error)
		return
	}
	c.println("ok")
}

func (c *Console) printParams(p types.CVParams) {
	b := make([]byte, 0, 64)
	b = append(b, "cv hits="...)
	b = appendInts(b, p.Hits)
	b = append(b, " offset="...)
	b = appendInts(b, p.Offset)
	b = append(b, '\r', '\n')
	_, _ = c.port.Write(b)
}

func (c *Console) println(s string) {
	_, _ = c.port.Write(append([]byte(s), '\r', '\n'))
}

func appendInts(b []byte, v []int) []byte {
	b = append(b, '[')
	for i, x := range v {
		if i > 0 {
			b = append(b, ' ')
		}
		b = strconv.AppendInt(b, int64(x), 10)
	}
	return append(b, ']')
}

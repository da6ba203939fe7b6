package streamdeck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

var (
	// ErrClosed is returned when sending on a closed connection.
	ErrClosed = errors.New("connection closed")
	// ErrSendBufferFull is returned when the writer cannot keep up.
	ErrSendBufferFull = errors.New("send buffer full")
)

const (
	DefaultHost         = "127.0.0.1"
	DefaultSendBuffer   = 64
	DefaultWriteTimeout = 10 * time.Second
)

// Options tunes a connection. Zero values take defaults.
type Options struct {
	SendBuffer   int
	WriteTimeout time.Duration
}

// Conn is a plugin connection to the host. Reads happen on the caller's
// goroutine through Next; writes are queued and drained by a single
// writePump so that concurrent senders never interleave frames.
type Conn struct {
	ws           *websocket.Conn
	send         chan []byte
	done         chan struct{}
	closeOnce    sync.Once
	writeTimeout time.Duration
}

// Dial connects to the host's plugin endpoint at ws://host:port.
func Dial(ctx context.Context, host string, port int, opts Options) (*Conn, error) {
	if host == "" {
		host = DefaultHost
	}
	url := "ws://" + net.JoinHostPort(host, strconv.Itoa(port))
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return newConn(ws, opts), nil
}

func newConn(ws *websocket.Conn, opts Options) *Conn {
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	c := &Conn{
		ws:           ws,
		send:         make(chan []byte, opts.SendBuffer),
		done:         make(chan struct{}),
		writeTimeout: opts.WriteTimeout,
	}
	go c.writePump()
	return c
}

// Register announces the plugin to the host.
func (c *Conn) Register(event, uuid string) error {
	return c.Send(RegisterMessage{Event: event, UUID: uuid})
}

// SetTitle queues a title update for the widget identified by context.
func (c *Conn) SetTitle(context, title string) error {
	return c.Send(SetTitleMessage{
		Event:   EventSetTitle,
		Context: context,
		Payload: SetTitlePayload{Title: title, Target: TargetBoth},
	})
}

// Send marshals v and queues it without blocking.
func (c *Conn) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	select {
	case <-c.done:
		return ErrClosed
	default:
	}
	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClosed
	default:
		return ErrSendBufferFull
	}
}

// Next blocks for the next text frame. It returns io.EOF when the host
// closes the connection normally.
func (c *Conn) Next() ([]byte, error) {
	for {
		mt, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			select {
			case <-c.done:
				return nil, io.EOF
			default:
			}
			return nil, err
		}
		if mt != websocket.TextMessage && mt != websocket.BinaryMessage {
			continue
		}
		return data, nil
	}
}

// Close shuts the connection down. It is safe to call more than once.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(time.Second)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = c.ws.Close()
	})
	return err
}

// writePump is the only goroutine that writes data frames.
func (c *Conn) writePump() {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				log.Printf("ws write error: %v", err)
				c.Close()
				return
			}
		}
	}
}

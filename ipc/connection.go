package ipc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
)

// Handler processes a received envelope. Return nil to send no reply.
type Handler func(ctx context.Context, env Envelope) (*Envelope, error)

// ErrorCoder lets a handler error pick the code sent in its error reply.
type ErrorCoder interface {
	Code() string
}

// Connection is one client session on the socket, identified after the
// hello handshake.
type Connection struct {
	conn     net.Conn
	handlers map[string]Handler
	writeMu  sync.Mutex
	Client   string
}

func NewConnection(conn net.Conn, handlers map[string]Handler) *Connection {
	if handlers == nil {
		handlers = make(map[string]Handler)
	}
	return &Connection{
		conn:     conn,
		handlers: handlers,
	}
}

func (c *Connection) RegisterHandler(msgType string, handler Handler) {
	c.handlers[msgType] = handler
}

func (c *Connection) Send(msgType string, data any) error {
	env, err := NewEnvelope(msgType, data)
	if err != nil {
		return err
	}
	return c.write(env)
}

func (c *Connection) write(env Envelope) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return WriteEnvelope(c.conn, env)
}

// ReadLoop blocks until the connection closes, errors, or ctx is done. It
// owns the conn lifetime so callers don't need to track cleanup. Handler
// errors and unknown message types are answered with a TypeError reply.
func (c *Connection) ReadLoop(ctx context.Context) {
	defer c.conn.Close()

	stop := context.AfterFunc(ctx, func() { _ = c.conn.Close() })
	defer stop()

	for {
		env, err := ReadEnvelope(c.conn)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				slog.Info("connection closed", "client", c.Client)
			} else {
				slog.Warn("connection read ended", "client", c.Client, "error", err)
			}
			return
		}

		resp, err := c.dispatch(ctx, env)
		if err != nil {
			slog.Error("handler error", "type", env.Type, "client", c.Client, "error", err)
			resp = errorEnvelope(env.Type, err)
		}
		if resp == nil {
			continue
		}

		resp.ID = env.ID
		if err := c.write(*resp); err != nil {
			slog.Error("failed to send response", "type", resp.Type, "error", err)
			return
		}
		slog.Debug("sent response", "type", resp.Type, "client", c.Client)
	}
}

func (c *Connection) dispatch(ctx context.Context, env Envelope) (*Envelope, error) {
	handler, ok := c.handlers[env.Type]
	if !ok {
		return nil, unknownTypeError(env.Type)
	}
	return handler(ctx, env)
}

type unknownTypeError string

func (e unknownTypeError) Error() string { return "no handler for message type " + string(e) }
func (unknownTypeError) Code() string    { return "unknown_type" }

func errorEnvelope(request string, err error) *Envelope {
	code := "internal"
	var coder ErrorCoder
	if errors.As(err, &coder) {
		code = coder.Code()
	}
	env, mErr := NewEnvelope(TypeError, ErrorMessage{Request: request, Code: code, Message: err.Error()})
	if mErr != nil {
		return nil
	}
	return &env
}

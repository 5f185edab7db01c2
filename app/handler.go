package app

import (
	"context"
	"net"

	"github.com/sirupsen/logrus"

	"github.com/theaaf/radius-core/radius"
)

// Request is a decoded request and the context it arrived in.
type Request struct {
	Addr   net.Addr
	Packet *radius.Packet
	Secret []byte

	// Logger carries the listener, addr and request_id fields.
	Logger logrus.FieldLogger
}

func (r *Request) logger() logrus.FieldLogger {
	if r.Logger == nil {
		return logrus.StandardLogger()
	}
	return r.Logger
}

// Handler answers requests. Returning a nil packet and a nil error drops the request without a
// reply. Returning an error also sends nothing; the server reports it and forgets the request so a
// retransmission is handled again.
type Handler interface {
	ServeRADIUS(ctx context.Context, r *Request) (*radius.Packet, error)
}

type HandlerFunc func(ctx context.Context, r *Request) (*radius.Packet, error)

func (f HandlerFunc) ServeRADIUS(ctx context.Context, r *Request) (*radius.Packet, error) {
	return f(ctx, r)
}

// Mux routes requests to a handler by packet code. Codes without a handler are dropped.
type Mux map[radius.Code]Handler

func (m Mux) ServeRADIUS(ctx context.Context, r *Request) (*radius.Packet, error) {
	h, ok := m[r.Packet.Code]
	if !ok {
		r.logger().WithField("code", r.Packet.Code).Info("packet discarded: unsupported code")
		return nil, nil
	}
	return h.ServeRADIUS(ctx, r)
}

package app

import (
	"context"
	"encoding/binary"
	"net"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/theaaf/radius-core/dedup"
	"github.com/theaaf/radius-core/radius"
	"github.com/theaaf/radius-core/radius/dictionary"
)

// RADIUSServer serves one UDP listener. Every datagram is handled on its own goroutine.
type RADIUSServer struct {
	Logger logrus.FieldLogger

	// Addr defaults to ":1812".
	Addr    string
	Handler Handler
	Secrets SecretSource

	// Codec defaults to one using dictionary.Default().
	Codec *radius.Codec

	// Dedup is optional. Without it every retransmission is handled again.
	Dedup DedupCache

	// ErrorReporter receives handler and send failures. Nil discards them.
	ErrorReporter func(addr net.Addr, err error)

	packetConn net.PacketConn
	serveDone  chan struct{}
	cancel     context.CancelFunc
}

func (s *RADIUSServer) Start() error {
	s.Stop()

	log := s.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if s.Handler == nil || s.Secrets == nil {
		return errors.New("a handler and a secret source are required")
	}
	if s.Codec == nil {
		s.Codec = &radius.Codec{Dictionary: dictionary.Default()}
	}

	listenAddr := s.Addr
	if listenAddr == "" {
		listenAddr = ":1812"
	}

	pc, err := net.ListenPacket("udp", listenAddr)
	if err != nil {
		return errors.Wrapf(err, "unable to listen on %v", listenAddr)
	}
	log = log.WithField("radius_server", pc.LocalAddr().String())
	log.Infof("radius server listening")

	ctx, cancel := context.WithCancel(context.Background())
	s.packetConn = pc
	s.serveDone = make(chan struct{})
	s.cancel = cancel

	go s.serve(ctx, pc, log)
	return nil
}

// LocalAddr returns the bound address, or nil if the server is not running.
func (s *RADIUSServer) LocalAddr() net.Addr {
	if s.packetConn == nil {
		return nil
	}
	return s.packetConn.LocalAddr()
}

// Stop closes the listener and waits for in-flight requests to finish.
func (s *RADIUSServer) Stop() {
	if s.packetConn != nil {
		s.cancel()
		s.packetConn.Close()
		<-s.serveDone
		s.packetConn = nil
	}
}

func (s *RADIUSServer) serve(ctx context.Context, pc net.PacketConn, log logrus.FieldLogger) {
	defer close(s.serveDone)

	var wg sync.WaitGroup
	wg.Add(1)

	for {
		// The maximum RADIUS packet size is 4096, but padding is allowed, so double that to be safe.
		buf := make([]byte, radius.MaxPacketLength*2)

		n, addr, err := pc.ReadFrom(buf)
		if err != nil {
			if err, ok := err.(net.Error); ok && err.Temporary() {
				log.Warn("temporary listener error:", err.Error())
				continue
			}
			if ctx.Err() == nil {
				log.Error("listener error:", err.Error())
			}
			break
		}

		wg.Add(1)
		go func() {
			defer func() {
				if v := recover(); v != nil {
					log.Error("recovered from panic:", v, string(debug.Stack()))
				}
				wg.Done()
			}()
			log := log.WithFields(logrus.Fields{
				"addr":       addr,
				"request_id": uuid.New().String(),
			})
			s.handle(ctx, trimPadding(buf[:n]), addr, pc, log)
		}()
	}

	wg.Done()
	wg.Wait()
}

// trimPadding drops bytes past the length declared in the header. RFC-2865 requires them to be
// ignored. Datagrams shorter than their declared length are left for the codec to reject.
func trimPadding(b []byte) []byte {
	if len(b) < radius.HeaderLength {
		return b
	}
	if length := int(binary.BigEndian.Uint16(b[2:4])); length >= radius.HeaderLength && length < len(b) {
		return b[:length]
	}
	return b
}

// IsContentAuthenticated reports whether requests with code carry an RFC-2866 style authenticator
// derived from their content instead of a random one.
func IsContentAuthenticated(code radius.Code) bool {
	switch code {
	case radius.CodeAccountingRequest, radius.CodeDisconnectRequest, radius.CodeCoARequest:
		return true
	}
	return false
}

func (s *RADIUSServer) decode(b, secret []byte) (*radius.Packet, error) {
	if len(b) > 0 && IsContentAuthenticated(radius.Code(b[0])) {
		return s.Codec.DecodeAccountingRequest(b, secret)
	}
	return s.Codec.DecodeRequest(b, secret)
}

func (s *RADIUSServer) reportError(addr net.Addr, err error) {
	if s.ErrorReporter != nil {
		s.ErrorReporter(addr, err)
	}
}

// serveHandler converts a handler panic into an error so that the request is forgotten by the
// dedup cache and reported like any other failure.
func (s *RADIUSServer) serveHandler(ctx context.Context, r *Request) (resp *radius.Packet, err error) {
	defer func() {
		if v := recover(); v != nil {
			r.Logger.Error("recovered from panic in handler:", v, string(debug.Stack()))
			resp, err = nil, errors.Errorf("handler panic: %v", v)
		}
	}()
	return s.Handler.ServeRADIUS(ctx, r)
}

func (s *RADIUSServer) handle(ctx context.Context, b []byte, addr net.Addr, pc net.PacketConn, log logrus.FieldLogger) {
	secret, err := s.Secrets.SecretForClient(addr)
	if err != nil {
		log.WithField("reason", err).Info("packet discarded: no secret")
		return
	}

	var p *radius.Packet
	if s.Dedup != nil && s.Dedup.NeedsPacket() {
		if p, err = s.decode(b, secret); err != nil {
			log.WithField("reason", err).Info("packet discarded")
			return
		}
	}

	if s.Dedup != nil {
		result := s.Dedup.HandleRequest(addr, b, p)
		switch result.Status {
		case dedup.InProgressRequest:
			log.Info("duplicate request dropped: in progress")
			return
		case dedup.CachedResponse:
			log.Info("duplicate request answered from cache")
			if _, err := pc.WriteTo(result.Response, addr); err != nil {
				s.reportError(addr, errors.Wrap(err, "unable to resend cached response"))
			}
			return
		}
	}

	if p == nil {
		if p, err = s.decode(b, secret); err != nil {
			if s.Dedup != nil {
				s.Dedup.UnhandleRequest(addr, b, nil)
			}
			log.WithField("reason", err).Info("packet discarded")
			return
		}
	}
	log = log.WithField("code", p.Code)

	resp, err := s.serveHandler(ctx, &Request{
		Addr:   addr,
		Packet: p,
		Secret: secret,
		Logger: log,
	})
	if err == nil && resp == nil {
		return
	}

	var out []byte
	if err == nil {
		out, err = s.Codec.EncodeResponse(resp, secret, p.Received.Identifier, p.Received.Authenticator)
		err = errors.Wrapf(err, "unable to encode %v", resp.Code)
	}
	if err != nil {
		if s.Dedup != nil {
			s.Dedup.UnhandleRequest(addr, b, p)
		}
		s.reportError(addr, err)
		return
	}

	if s.Dedup != nil {
		s.Dedup.HandleResponse(addr, b, p, out)
	}
	if _, err := pc.WriteTo(out, addr); err != nil {
		s.reportError(addr, errors.Wrap(err, "unable to send response"))
	}
}

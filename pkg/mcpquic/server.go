package mcpquic

import (
	"bufio"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/hazyhaar/ncrp-ingest/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/quic-go/quic-go"
)

// Listener accepts QUIC connections and serves each one as an MCP session
// of the shared server.
type Listener struct {
	ln     *quic.Listener
	srv    *server.MCPServer
	logger *slog.Logger
}

// Listen binds addr (UDP).
func Listen(addr string, tlsCfg *tls.Config, srv *server.MCPServer, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := quic.ListenAddr(addr, tlsCfg, QUICConfig())
	if err != nil {
		return nil, fmt.Errorf("quic listen %s: %w", addr, err)
	}
	return &Listener{ln: ln, srv: srv, logger: logger}, nil
}

// Addr is the bound UDP address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Serve accepts connections until ctx is done or the listener is closed.
func (l *Listener) Serve(ctx context.Context) error {
	l.logger.Info("mcp quic listening", "addr", l.Addr().String())
	for {
		conn, err := l.ln.Accept(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("quic accept: %w", err)
		}
		if alpn := conn.ConnectionState().TLS.NegotiatedProtocol; alpn != ALPN {
			conn.CloseWithError(codeUnsupportedALPN, "unsupported ALPN: "+alpn)
			continue
		}
		go l.serveConn(ctx, conn)
	}
}

// Close stops accepting connections.
func (l *Listener) Close() error { return l.ln.Close() }

func (l *Listener) serveConn(ctx context.Context, conn *quic.Conn) {
	remote := conn.RemoteAddr().String()

	stream, err := conn.AcceptStream(ctx)
	if err != nil {
		l.logger.Warn("mcp quic stream", "remote", remote, "error", err)
		conn.CloseWithError(codeProtocolViolation, "no stream")
		return
	}
	if err := readPreamble(stream); err != nil {
		l.logger.Warn("mcp quic preamble", "remote", remote, "error", err)
		stream.CancelRead(streamCodeBadPreamble)
		stream.CancelWrite(streamCodeBadPreamble)
		conn.CloseWithError(codeProtocolViolation, "bad preamble")
		return
	}

	sess := &session{id: "quic_" + uuid.NewString()[:8], out: stream, notes: make(chan mcp.JSONRPCNotification, 100)}
	if err := l.srv.RegisterSession(ctx, sess); err != nil {
		l.logger.Error("mcp quic session", "session", sess.id, "error", err)
		stream.Close()
		return
	}
	defer l.srv.UnregisterSession(ctx, sess.id)
	l.logger.Info("mcp quic session started", "session", sess.id, "remote", remote)

	ctx, cancel := context.WithCancel(l.srv.WithContext(kit.WithTransport(ctx, "mcp_quic"), sess))
	defer cancel()
	go sess.forwardNotifications(ctx)

	r := bufio.NewReader(stream)
	for {
		line, err := r.ReadBytes('\n')
		if err != nil {
			if err != io.EOF && ctx.Err() == nil {
				l.logger.Warn("mcp quic read", "session", sess.id, "error", err)
			}
			break
		}
		if len(line) <= 1 {
			continue
		}
		resp := l.srv.HandleMessage(ctx, json.RawMessage(line[:len(line)-1]))
		if resp == nil {
			continue
		}
		if err := sess.send(resp); err != nil {
			l.logger.Warn("mcp quic write", "session", sess.id, "error", err)
			break
		}
	}
	conn.CloseWithError(codeOK, "")
	l.logger.Info("mcp quic session ended", "session", sess.id)
}

// session is the server.ClientSession of one QUIC connection.
type session struct {
	id          string
	notes       chan mcp.JSONRPCNotification
	initialized atomic.Bool

	mu  sync.Mutex
	out io.Writer
}

func (s *session) SessionID() string                                   { return s.id }
func (s *session) NotificationChannel() chan<- mcp.JSONRPCNotification { return s.notes }
func (s *session) Initialize()                                         { s.initialized.Store(true) }
func (s *session) Initialized() bool                                   { return s.initialized.Load() }

// send writes one JSON-RPC message line. Responses and notifications share
// the stream.
func (s *session) send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.out.Write(append(data, '\n'))
	return err
}

func (s *session) forwardNotifications(ctx context.Context) {
	for {
		select {
		case n := <-s.notes:
			s.send(n)
		case <-ctx.Done():
			return
		}
	}
}

package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"time"

	"github.com/specialistvlad/contingent/internal/ctxlog"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// SocketIOConfig configures the live-reload emitter.
type SocketIOConfig struct {
	URL                string
	Namespace          string
	Event              string
	InsecureSkipVerify bool
	Timeout            time.Duration
}

// SocketIO emits every rebuild event to a socket.io server.
type SocketIO struct {
	client *socket.Socket
	event  string
}

// DialSocketIO connects to the server and waits for the connection to be
// acknowledged.
func DialSocketIO(ctx context.Context, cfg SocketIOConfig) (*SocketIO, error) {
	logger := ctxlog.FromContext(ctx).With("notifier", "socketio", "url", cfg.URL)
	logger.Info("Connecting live-reload client...")

	parsedURL, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if cfg.Event == "" {
		cfg.Event = "reload"
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "/"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if cfg.InsecureSkipVerify {
		logger.Warn("Skipping TLS certificate verification")
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	connectChan := make(chan error, 1)

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket(cfg.Namespace, opts)

	io.Once(types.EventName("connect"), func(...any) {
		logger.Info("Live-reload client connected", "sid", io.Id())
		connectChan <- nil
	})

	io.Once(types.EventName("connect_error"), func(errs ...any) {
		var err error = fmt.Errorf("connect_error")
		if len(errs) > 0 {
			if e, ok := errs[0].(error); ok {
				err = e
			} else {
				err = fmt.Errorf("connect_error: %v", errs[0])
			}
		}
		connectChan <- err
	})

	io.Connect()

	select {
	case err := <-connectChan:
		if err != nil {
			io.Disconnect()
			return nil, fmt.Errorf("socket.io connection failed: %w", err)
		}
		return &SocketIO{client: io, event: cfg.Event}, nil
	case <-ctx.Done():
		io.Disconnect()
		return nil, fmt.Errorf("context cancelled while waiting for socket.io connection")
	case <-time.After(cfg.Timeout):
		io.Disconnect()
		return nil, fmt.Errorf("timed out after %s waiting for socket.io connection", cfg.Timeout)
	}
}

// Notify emits the event payload.
func (s *SocketIO) Notify(ctx context.Context, ev Event) error {
	if !s.client.Connected() {
		return fmt.Errorf("live-reload client is not connected")
	}
	ctxlog.FromContext(ctx).Debug("Emitting live-reload event", "event", s.event, "sid", s.client.Id())
	s.client.Emit(s.event, Payload(ev))
	return nil
}

// Close disconnects from the server.
func (s *SocketIO) Close() error {
	s.client.Disconnect()
	return nil
}

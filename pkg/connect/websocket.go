package connect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/nathfavour/pippin/pkg/brain"
	"github.com/nathfavour/pippin/pkg/chat"
	"github.com/nathfavour/pippin/pkg/logging"
)

// Matcher is what the channel asks for replies. *brain.Selector and
// *metrics.Responder satisfy it.
type Matcher interface {
	Match(input string) brain.Reply
}

type inbound struct {
	Text string `json:"text"`
}

// Frame is what the channel writes back to clients.
type Frame struct {
	ID       string      `json:"id"`
	Text     string      `json:"text"`
	Sender   chat.Sender `json:"sender"`
	Category string      `json:"category,omitempty"`
}

type client struct {
	conn      *websocket.Conn
	userAgent string
	connected time.Time
	writeMu   sync.Mutex
}

func (c *client) write(f Frame) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(f)
}

type Option func(*WebSocketChannel)

func WithLogger(l *zap.Logger) Option {
	return func(c *WebSocketChannel) { c.logger = logging.OrNop(l) }
}

func WithDelay(d time.Duration) Option {
	return func(c *WebSocketChannel) { c.delay = d }
}

func WithSleep(sleep func(time.Duration)) Option {
	return func(c *WebSocketChannel) { c.sleep = sleep }
}

// WebSocketChannel answers each text frame on /ws with a bot frame.
type WebSocketChannel struct {
	addr     string
	matcher  Matcher
	upgrader websocket.Upgrader
	delay    time.Duration
	sleep    func(time.Duration)
	logger   *zap.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
	closing bool
	wg      sync.WaitGroup
}

func NewWebSocketChannel(addr string, matcher Matcher, opts ...Option) *WebSocketChannel {
	c := &WebSocketChannel{
		addr:    addr,
		matcher: matcher,
		clients: make(map[*websocket.Conn]*client),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		delay:  chat.DefaultDelay,
		sleep:  time.Sleep,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *WebSocketChannel) Name() string {
	return "websocket"
}

func (c *WebSocketChannel) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", c.handleWebSocket)
	return mux
}

// Start listens on the channel's address and serves until ctx is cancelled.
func (c *WebSocketChannel) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", c.addr)
	if err != nil {
		return fmt.Errorf("websocket listen %s: %w", c.addr, err)
	}
	return c.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then closes every
// client and waits for their handlers to return.
func (c *WebSocketChannel) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
		case <-stop:
		}
		c.shutdown()
		_ = server.Close()
	}()

	c.logger.Info("websocket chat listening", zap.String("addr", ln.Addr().String()))
	err := server.Serve(ln)
	close(stop)
	<-stopped
	c.wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// shutdown refuses new clients and closes the connected ones.
func (c *WebSocketChannel) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closing = true
	for conn := range c.clients {
		_ = conn.Close()
	}
}

func (c *WebSocketChannel) IsActive() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.clients) > 0
}

func (c *WebSocketChannel) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	cl := &client{
		conn:      conn,
		userAgent: r.Header.Get("User-Agent"),
		connected: time.Now(),
	}

	c.mu.Lock()
	if c.closing {
		c.mu.Unlock()
		return
	}
	c.clients[conn] = cl
	c.wg.Add(1)
	c.mu.Unlock()
	defer c.wg.Done()

	c.logger.Debug("websocket client connected", zap.String("user_agent", cl.userAgent))

	defer func() {
		c.mu.Lock()
		delete(c.clients, conn)
		c.mu.Unlock()
		c.logger.Debug("websocket client left", zap.Duration("connected_for", time.Since(cl.connected)))
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg inbound
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		text := strings.TrimSpace(msg.Text)
		if text == "" {
			continue
		}

		if c.delay > 0 {
			c.sleep(c.delay)
		}
		reply := c.matcher.Match(text)
		frame := chat.NewMessage(chat.SenderBot, reply.Text)
		if err := cl.write(Frame{ID: frame.ID, Text: frame.Text, Sender: frame.Sender, Category: reply.Category}); err != nil {
			c.logger.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

// Broadcast sends a bot frame to every connected client.
func (c *WebSocketChannel) Broadcast(message string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	msg := chat.NewMessage(chat.SenderBot, message)
	var errs []error
	for _, cl := range c.clients {
		if err := cl.write(Frame{ID: msg.ID, Text: msg.Text, Sender: msg.Sender}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

package sse

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	ginsse "github.com/gin-contrib/sse"
	"github.com/sirupsen/logrus"
)

// Client consumes a server-sent-event feed and delivers each event to
// the handler registered for its name, in arrival order. Delivery runs
// on a single reader goroutine, so handlers never race each other.
type Client struct {
	mu       sync.Mutex
	handlers map[string]func(data []byte)
	cancel   context.CancelFunc
	done     chan struct{}
}

// Dial opens the feed and starts the reader.
func Dial(ctx context.Context, url string) (*Client, error) {
	ctx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		cancel()
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("feed returned %s", resp.Status)
	}

	c := &Client{
		handlers: make(map[string]func(data []byte)),
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go c.read(resp)
	return c, nil
}

func (c *Client) On(event string, fn func(data []byte)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = fn
}

func (c *Client) Off(event string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.handlers, event)
}

// Done closes when the feed ends or the client is closed.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

func (c *Client) Close() {
	c.cancel()
	<-c.done
}

func (c *Client) read(resp *http.Response) {
	defer close(c.done)
	defer resp.Body.Close()

	reader := bufio.NewReader(resp.Body)
	var frame bytes.Buffer
	for {
		line, err := reader.ReadString('\n')
		if strings.TrimRight(line, "\r\n") == "" {
			if frame.Len() > 0 {
				frame.WriteString("\n")
				c.dispatch(frame.Bytes())
				frame.Reset()
			}
		} else {
			frame.WriteString(line)
		}
		if err != nil {
			if frame.Len() > 0 {
				c.dispatch(frame.Bytes())
			}
			return
		}
	}
}

func (c *Client) dispatch(frame []byte) {
	events, err := ginsse.Decode(bytes.NewReader(frame))
	if err != nil {
		logrus.WithError(err).Warn("dropping undecodable feed frame")
		return
	}
	for _, event := range events {
		c.mu.Lock()
		fn := c.handlers[event.Event]
		c.mu.Unlock()
		if fn == nil {
			continue
		}
		data, _ := event.Data.(string)
		fn([]byte(data))
	}
}

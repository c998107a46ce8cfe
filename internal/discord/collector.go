package discord

import (
	"context"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/lojasmm/embedkit/internal/builder"
)

type waitKey struct {
	channelID string
	userID    string
}

// Collector hands plain channel messages to goroutines waiting for the next
// message of a given user in a given channel.
type Collector struct {
	mu      sync.Mutex
	waiters map[waitKey][]chan *builder.Message
}

func NewCollector() *Collector {
	return &Collector{waiters: make(map[waitKey][]chan *builder.Message)}
}

// Await blocks until Deliver receives a matching message or ctx ends.
func (c *Collector) Await(ctx context.Context, channelID, userID string) (*builder.Message, error) {
	k := waitKey{channelID, userID}
	ch := make(chan *builder.Message, 1)

	c.mu.Lock()
	c.waiters[k] = append(c.waiters[k], ch)
	c.mu.Unlock()
	defer c.remove(k, ch)

	select {
	case m := <-ch:
		return m, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Deliver passes m to the oldest waiter for its channel and author.
// It reports whether anyone was waiting.
func (c *Collector) Deliver(m *builder.Message) bool {
	k := waitKey{m.ChannelID, m.AuthorID}

	c.mu.Lock()
	list := c.waiters[k]
	if len(list) == 0 {
		c.mu.Unlock()
		return false
	}
	ch := list[0]
	if len(list) == 1 {
		delete(c.waiters, k)
	} else {
		c.waiters[k] = list[1:]
	}
	c.mu.Unlock()

	ch <- m
	return true
}

// Waiting reports how many goroutines are blocked in Await.
func (c *Collector) Waiting() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, list := range c.waiters {
		n += len(list)
	}
	return n
}

// HandleMessageCreate is registered with discordgo to feed the collector.
func (c *Collector) HandleMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	c.Deliver(&builder.Message{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		Content:   m.Content,
	})
}

func (c *Collector) remove(k waitKey, ch chan *builder.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	list := c.waiters[k]
	for i, w := range list {
		if w == ch {
			list = append(list[:i:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(c.waiters, k)
	} else {
		c.waiters[k] = list
	}
}

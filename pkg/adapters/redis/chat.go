package redis

import (
	"context"
	"encoding/json"
	"fmt"

	backend "github.com/redis/go-redis/v9"
)

// DefaultChannel is where chat payloads are published.
const DefaultChannel = "spire:chat"

// ChatTopic tags published payloads for the speech subscriber.
const ChatTopic = "tts"

// ChatPayload is the JSON body published for each chat line.
type ChatPayload struct {
	Msg   string `json:"msg"`
	Topic string `json:"topic"`
}

// ChatSink implements ports.ChatSink by publishing on a Redis channel.
type ChatSink struct {
	client  *backend.Client
	channel string
}

// NewChatSink creates a sink publishing on channel. An empty channel uses DefaultChannel.
func NewChatSink(client *backend.Client, channel string) *ChatSink {
	if channel == "" {
		channel = DefaultChannel
	}
	return &ChatSink{client: client, channel: channel}
}

// Say publishes message. Having no subscriber is not an error.
func (c *ChatSink) Say(ctx context.Context, message string) error {
	data, err := json.Marshal(ChatPayload{Msg: message, Topic: ChatTopic})
	if err != nil {
		return err
	}
	if err := c.client.Publish(ctx, c.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish chat: %w", err)
	}
	return nil
}

// Channel returns the channel the sink publishes on.
func (c *ChatSink) Channel() string {
	return c.channel
}

package schoolapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/volatiletech/null/v8"
)

type (
	Chat struct {
		ID           int       `json:"chat_id"`
		Participants []int     `json:"participants"`
		CreatedAt    null.Time `json:"created_at"`
	}

	ChatInfo struct {
		ID           int           `json:"chat_id"`
		Participants []int         `json:"participants"`
		Messages     []ChatMessage `json:"messages"`
	}

	ChatMessage struct {
		ID       int       `json:"message_id"`
		ChatID   int       `json:"chat_id"`
		SenderID int       `json:"sender_id"`
		Text     string    `json:"text"`
		SentAt   time.Time `json:"sent_at"`
	}

	StartChat struct {
		PeerID int `json:"peer_id" validate:"required"`
	}

	SendMessage struct {
		ChatID int    `json:"chat_id" validate:"required"`
		Text   string `json:"text" validate:"required"`
	}
)

// StartChatWith opens (or returns the existing) one-to-one chat with a peer.
func (c *Client) StartChatWith(ctx context.Context, data StartChat) (Chat, error) {
	var chat Chat
	err := c.do(ctx, http.MethodPost, "/chat/start", nil, data, &chat)
	return chat, err
}

func (c *Client) ChatInfo(ctx context.Context, chatID int) (ChatInfo, error) {
	var info ChatInfo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/chats/%d/info", chatID), nil, nil, &info)
	return info, err
}

func (c *Client) SendToChat(ctx context.Context, data SendMessage) (ChatMessage, error) {
	var msg ChatMessage
	err := c.do(ctx, http.MethodPost, "/message/send_to_chat", nil, data, &msg)
	return msg, err
}

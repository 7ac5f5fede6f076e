package domain

import (
	"errors"
	"time"
)

// ChatMessage is a relayed chat line. Chat is a pure side channel: no
// persistence, the timestamp is assigned by the server.
type ChatMessage struct {
	SenderID   ConnectionID `json:"senderId"`
	SenderName string       `json:"senderName"`
	Text       string       `json:"text"`
	Timestamp  time.Time    `json:"timestamp"`
}

func NewChatMessage(senderID ConnectionID, senderName, text string) (ChatMessage, error) {
	if text == "" {
		return ChatMessage{}, errors.New("message text cannot be empty")
	}
	return ChatMessage{
		SenderID:   senderID,
		SenderName: senderName,
		Text:       text,
		Timestamp:  time.Now().UTC(),
	}, nil
}

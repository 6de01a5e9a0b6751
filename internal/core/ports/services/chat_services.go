package services

import (
	"context"

	"github.com/SscSPs/splitledger/internal/core/domain"
)

// Attachment is a file sent along with a chat message.
type Attachment struct {
	URL         string
	ContentType string
	Filename    string
}

// InboundMessage is a chat message normalised away from the chat platform.
type InboundMessage struct {
	ChannelID    string
	MessageID    string
	AuthorHandle string
	AuthorID     string
	Text         string
	Mentions     []string // Normalised handles
	Attachments  []Attachment
	IsDirect     bool
}

// MessageHandler processes one inbound message.
type MessageHandler func(ctx context.Context, msg InboundMessage)

// ChatSender posts text to a channel.
type ChatSender interface {
	Send(ctx context.Context, channelID string, text string) error
}

// ChatAdapter connects the bot to a chat platform.
type ChatAdapter interface {
	ChatSender

	// OnMessage registers the handler for inbound messages. It must be called before Start.
	OnMessage(handler MessageHandler)

	// FetchAttachment downloads the content of an attachment.
	FetchAttachment(ctx context.Context, attachment Attachment) ([]byte, error)

	// Start opens the connection to the platform.
	Start(ctx context.Context) error

	// Stop closes the connection.
	Stop() error
}

// ReceiptScanner extracts amount/description candidates from a receipt image.
type ReceiptScanner interface {
	ScanReceipt(ctx context.Context, image []byte) ([]domain.ReceiptCandidate, error)
}

package discord

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/splitledger/internal/core/domain"
	portssvc "github.com/SscSPs/splitledger/internal/core/ports/services"
	"github.com/bwmarrin/discordgo"
)

const (
	// maxMessageLen is Discord's per-message character limit.
	maxMessageLen = 2000
	// maxAttachmentBytes caps receipt downloads.
	maxAttachmentBytes = 10 << 20
)

// messageSender is the part of *discordgo.Session used to post replies.
type messageSender interface {
	ChannelMessageSend(channelID, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Adapter connects the bot to Discord through a gateway session.
type Adapter struct {
	session *discordgo.Session
	sender  messageSender
	http    *http.Client

	mu      sync.RWMutex
	handler portssvc.MessageHandler
	baseCtx context.Context
}

// New creates a Discord adapter for the given bot token. Call OnMessage and then Start.
func New(token string) (*Adapter, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	a := &Adapter{
		session: session,
		sender:  session,
		http:    &http.Client{Timeout: 30 * time.Second},
		baseCtx: context.Background(),
	}
	session.AddHandler(a.onReady)
	session.AddHandler(a.onMessageCreate)
	return a, nil
}

var _ portssvc.ChatAdapter = (*Adapter)(nil)

func (a *Adapter) OnMessage(handler portssvc.MessageHandler) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = handler
}

// Start opens the gateway connection. ctx becomes the parent of every message context.
func (a *Adapter) Start(ctx context.Context) error {
	a.mu.Lock()
	a.baseCtx = ctx
	a.mu.Unlock()
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open discord session: %w", err)
	}
	slog.Info("Discord bot is running")
	return nil
}

func (a *Adapter) Stop() error {
	return a.session.Close()
}

// Send posts text to channelID, splitting it on line boundaries when it exceeds the message limit.
func (a *Adapter) Send(_ context.Context, channelID string, text string) error {
	for _, chunk := range splitMessage(text, maxMessageLen) {
		if _, err := a.sender.ChannelMessageSend(channelID, chunk); err != nil {
			return fmt.Errorf("failed to send discord message: %w", err)
		}
	}
	return nil
}

// FetchAttachment downloads an attachment from the Discord CDN.
func (a *Adapter) FetchAttachment(ctx context.Context, attachment portssvc.Attachment) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, attachment.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build attachment request: %w", err)
	}
	resp, err := a.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("attachment download returned %s", resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAttachmentBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	if len(body) > maxAttachmentBytes {
		return nil, fmt.Errorf("attachment %s is larger than %d bytes", attachment.Filename, maxAttachmentBytes)
	}
	return body, nil
}

func (a *Adapter) onReady(_ *discordgo.Session, event *discordgo.Ready) {
	slog.Info("Discord session ready",
		slog.String("user", event.User.Username),
		slog.Int("guilds", len(event.Guilds)))
}

func (a *Adapter) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	a.mu.RLock()
	handler, ctx := a.handler, a.baseCtx
	a.mu.RUnlock()
	if handler == nil {
		return
	}
	handler(ctx, toInboundMessage(m.Message))
}

// toInboundMessage converts a Discord message into the platform-neutral form.
// User mentions are rewritten from <@id> to @username so text parsing sees handles.
func toInboundMessage(m *discordgo.Message) portssvc.InboundMessage {
	mentions := make([]string, 0, len(m.Mentions))
	for _, u := range m.Mentions {
		if u == nil || u.Bot {
			continue
		}
		mentions = append(mentions, u.Username)
	}

	attachments := make([]portssvc.Attachment, 0, len(m.Attachments))
	for _, att := range m.Attachments {
		attachments = append(attachments, portssvc.Attachment{
			URL:         att.URL,
			ContentType: att.ContentType,
			Filename:    att.Filename,
		})
	}

	msg := portssvc.InboundMessage{
		ChannelID:   m.ChannelID,
		MessageID:   m.ID,
		Text:        strings.TrimSpace(m.ContentWithMentionsReplaced()),
		Mentions:    domain.DedupeHandles(mentions),
		Attachments: attachments,
		IsDirect:    m.GuildID == "",
	}
	if m.Author != nil {
		msg.AuthorHandle = domain.NormalizeHandle(m.Author.Username)
		msg.AuthorID = m.Author.ID
	}
	return msg
}

// splitMessage breaks text into chunks of at most limit bytes, preferring newline boundaries.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}
	var chunks []string
	for len(text) > limit {
		cut := strings.LastIndex(text[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8RuneStart(text[cut]) {
				cut--
			}
		}
		chunks = append(chunks, text[:cut])
		text = strings.TrimPrefix(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func utf8RuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

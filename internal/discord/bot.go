package discord

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/nereth/stagemind/internal/ai"
	"github.com/nereth/stagemind/internal/config"
	"github.com/nereth/stagemind/internal/mind"
)

// Bot bridges Discord to the decision engine. Every channel message runs
// through Decide; silence costs nothing, responses are either canned or
// generated.
type Bot struct {
	dg       *discordgo.Session
	engine   *mind.Engine
	provider ai.Provider
	canned   *CannedResponder
	cfg      *config.Config
	log      zerolog.Logger

	mu    sync.Mutex
	turns map[string]int // per-channel turn counters
}

// NewBot wires a bot. provider may be nil; generated response types then
// degrade to silence.
func NewBot(cfg *config.Config, engine *mind.Engine, provider ai.Provider, canned *CannedResponder, log zerolog.Logger) *Bot {
	return &Bot{
		engine:   engine,
		provider: provider,
		canned:   canned,
		cfg:      cfg,
		log:      log.With().Str("component", "discord").Logger(),
		turns:    make(map[string]int),
	}
}

// Run opens the Discord session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	dg, err := discordgo.New("Bot " + b.cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	b.dg = dg

	b.configure(dg)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer dg.Close()

	<-ctx.Done()
	b.log.Info().Msg("shutdown signal received, closing session")
	return nil
}

// configure sets intents and handlers. SyncEvents keeps handler dispatch
// on the gateway read loop: messages for a channel reach the engine in
// arrival order, which the turn-numbering rules require.
func (b *Bot) configure(dg *discordgo.Session) {
	dg.SyncEvents = true
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onMessageCreate)
}

func (b *Bot) onReady(s *discordgo.Session, _ *discordgo.Ready) {
	b.log.Info().Str("user", s.State.User.Username).Msg("connected")
}

// onMessageCreate resolves one message fully before the next for the same
// channel: turn numbering and the adjacency rules depend on arrival order.
func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	content := strings.TrimSpace(m.Content)
	if content == "" {
		return
	}

	ch := b.channelContext(s, m)
	turn := b.nextTurn(m.ChannelID)

	dec := b.engine.Decide(mind.Incoming{
		Message: content,
		Channel: ch,
		Turn:    turn,
	})
	if !dec.ShouldRespond {
		return
	}

	reply := b.buildReply(m.ChannelID, dec)
	if reply == "" {
		return
	}

	for _, chunk := range splitMessage(reply, 2000) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			b.log.Error().Err(err).Str("channel", m.ChannelID).Msg("send failed")
			return
		}
	}
	b.engine.RecordPersonaReply(m.ChannelID, reply, b.nextTurn(m.ChannelID), dec.AddressCharacter)
}

// buildReply picks a canned line for the cheap response types and calls
// the provider for the rest.
func (b *Bot) buildReply(channelID string, dec mind.ResponseDecision) string {
	switch dec.Type {
	case mind.ResponseGroupAcknowledgment, mind.ResponseSubtleService:
		return b.canned.Line(dec)
	}
	if b.provider == nil {
		b.log.Warn().Str("type", dec.Type.String()).Msg("no provider configured, staying silent")
		return ""
	}

	msgs := b.engine.BuildPrompt(channelID, personaIdentity(b.cfg.PersonaName), dec)
	reply, err := b.provider.Generate(msgs)
	if err != nil {
		b.log.Error().Err(err).Str("type", dec.Type.String()).Msg("generate failed, staying silent")
		return ""
	}
	return reply
}

func (b *Bot) channelContext(s *discordgo.Session, m *discordgo.MessageCreate) mind.ChannelContext {
	ch := mind.ChannelContext{ChannelID: m.ChannelID}
	channel, err := s.State.Channel(m.ChannelID)
	if err != nil {
		channel, err = s.Channel(m.ChannelID)
	}
	if err == nil && channel != nil {
		ch.IsDM = channel.Type == discordgo.ChannelTypeDM
		ch.IsThread = channel.IsThread()
		ch.Type = channelTypeName(channel.Type)
	}
	return ch
}

// nextTurn hands out per-channel turn numbers. First use of a channel
// seeds the counter from the engine's restored session so numbering
// resumes after a restart instead of colliding with the ordering guard.
func (b *Bot) nextTurn(channelID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.turns[channelID]; !ok {
		b.turns[channelID] = b.engine.LastTurn(channelID)
	}
	b.turns[channelID]++
	return b.turns[channelID]
}

func channelTypeName(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeDM:
		return "dm"
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread:
		return "thread"
	default:
		return "channel"
	}
}

// personaIdentity is the minimal built-in identity; hosts usually override
// it with a richer character sheet via the prompt file.
func personaIdentity(name string) string {
	return "You are " + name + ", a thoughtful roleplay character who speaks naturally and stays in scene."
}

func splitMessage(msg string, limit int) []string {
	var result []string
	for len(msg) > limit {
		cut := strings.LastIndex(msg[:limit], "\n")
		if cut == -1 {
			cut = limit
		}
		result = append(result, strings.TrimSpace(msg[:cut]))
		msg = strings.TrimSpace(msg[cut:])
	}
	if msg != "" {
		result = append(result, msg)
	}
	return result
}

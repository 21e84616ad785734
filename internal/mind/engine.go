package mind

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/nereth/stagemind/internal/ai"
)

// EngineConfig carries the persona identity and tuning for the decision
// pipeline.
type EngineConfig struct {
	PersonaName      string
	ExpertiseDomains []string
	Resolver         ResolverConfig
}

// Engine is the response-decision engine: the only entry point callers
// see. One message is fully resolved (directive check, cues, analyzers,
// resolver) before the next should be submitted for the same channel.
// Decide never returns an error; the worst outcome is silence.
type Engine struct {
	registry  *Registry
	parser    *DirectiveParser
	cues      *CueBuilder
	analyzers []Analyzer
	resolver  *ConflictResolver
	cfg       EngineConfig
	log       zerolog.Logger
}

// NewEngine wires the default pipeline around a registry.
func NewEngine(registry *Registry, cfg EngineConfig, log zerolog.Logger) *Engine {
	if cfg.PersonaName == "" {
		cfg.PersonaName = "Persona"
	}
	return &Engine{
		registry:  registry,
		parser:    NewDirectiveParser(cfg.PersonaName),
		cues:      NewCueBuilder(cfg.PersonaName, cfg.ExpertiseDomains),
		analyzers: DefaultAnalyzers(),
		resolver:  NewConflictResolver(cfg.Resolver),
		cfg:       cfg,
		log:       log.With().Str("component", "engine").Logger(),
	}
}

// SetAnalyzers replaces the voter set (tests, learned classifiers).
func (e *Engine) SetAnalyzers(analyzers []Analyzer) {
	e.analyzers = analyzers
}

// Registry exposes the session registry for host wiring.
func (e *Engine) Registry() *Registry { return e.registry }

// Decide resolves one incoming message into a ResponseDecision.
func (e *Engine) Decide(in Incoming) ResponseDecision {
	if in.Channel.ChannelID == "" {
		in.Channel.ChannelID = "unknown"
	}
	sess := e.registry.Session(in.Channel.ChannelID)

	if in.Message == "" {
		return none("empty message")
	}

	// Listening mode is the cheapest path: no directive check, no cues,
	// no analyzers while passively observing a scene.
	if sess.Listening() {
		e.record(sess, in)
		e.registry.SaveSession(sess.ChannelID)
		return none("listening mode: observing without responding")
	}

	if d, ok := e.parser.Parse(in.Message); ok {
		dec := e.applyDirective(sess, d, in.Turn)
		e.registry.SaveSession(sess.ChannelID)
		return dec
	}

	// A plain message in an inactive channel opens an organic scene.
	if sess.Mode() == SessionInactive {
		sess.Start(in.Turn, false, nil)
	}

	speaker := e.record(sess, in)
	e.updateProfile(sess.ChannelID, speaker, in.Message)

	snap := sess.Snapshot()
	cues := e.cues.Build(in.Message, snap, e.registry.Profiles(sess.ChannelID), in.Channel, in.Turn)

	var candidates []Candidate
	for _, a := range e.analyzers {
		candidates = append(candidates, e.runAnalyzer(a, cues)...)
	}

	res := e.resolver.Resolve(candidates)
	dec := e.toDecision(sess.ChannelID, cues, res)

	e.log.Debug().
		Str("channel", sess.ChannelID).
		Int("turn", in.Turn).
		Str("speaker", cues.Speaker).
		Str("type", dec.Type.String()).
		Bool("respond", dec.ShouldRespond).
		Float64("confidence", dec.Confidence).
		Str("reasoning", dec.Reasoning).
		Msg("decision")

	e.registry.SaveSession(sess.ChannelID)
	return dec
}

// RecordPersonaReply must be called after the host actually sends a
// persona reply: it appends the reply as a persona turn and updates the
// response/addressing memory that drives implicit continuation.
func (e *Engine) RecordPersonaReply(channelID, reply string, turn int, addressed string) {
	sess := e.registry.Session(channelID)
	sess.AddTurn(e.cfg.PersonaName, reply, turn)
	sess.MarkResponseTurn(turn)
	if addressed != "" {
		sess.SetLastAddressed(addressed)
	}
	e.registry.SaveSession(channelID)
}

// BuildPrompt assembles provider messages for a positive decision on a
// channel: identity, response directives, relationship context and the
// recent turn history under budget.
func (e *Engine) BuildPrompt(channelID, identity string, dec ResponseDecision) []ai.Message {
	sess := e.registry.Session(channelID)
	snap := sess.Snapshot()
	return BuildMessages(identity, e.cfg.PersonaName, dec, snap.Mode.String(),
		e.registry.Profiles(channelID), snap.History, DefaultPromptBudget())
}

// LastTurn returns the highest turn number recorded for a channel, so a
// host restarting mid-scene can resume numbering where the restored
// session left off instead of colliding with the out-of-order guard.
func (e *Engine) LastTurn(channelID string) int {
	return e.registry.Session(channelID).LastTurn()
}

// SetListening toggles listening mode on a channel's session.
func (e *Engine) SetListening(channelID string, on bool, reason string) {
	e.registry.Session(channelID).SetListening(on, reason)
	e.registry.SaveSession(channelID)
}

// record adds the message to the session as a character turn and returns
// the speaker name.
func (e *Engine) record(sess *RoleplaySession, in Incoming) string {
	speaker, _ := SplitSpeaker(in.Message)
	if speaker != "unknown" {
		sess.AddParticipant(speaker, SourceObserved, in.Turn)
	}
	sess.AddTurn(speaker, in.Message, in.Turn)
	sess.MarkCharacterTurn(in.Turn, speaker)
	return speaker
}

func (e *Engine) updateProfile(channelID, speaker, message string) {
	if speaker == "unknown" {
		return
	}
	_, text := SplitSpeaker(message)
	kind := ClassifyMessageForProfile(text)
	p := e.registry.Profile(channelID, speaker)
	updated := ApplyProfileUpdate(&p, kind, 0.08)
	updated.Name = speaker
	e.registry.SetProfile(channelID, *updated)
}

// runAnalyzer isolates analyzer faults: a panic inside a voter is logged
// and treated as "did not fire", never propagated.
func (e *Engine) runAnalyzer(a Analyzer, cues *ContextualCues) (out []Candidate) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Str("analyzer", a.Name()).Interface("panic", r).Msg("analyzer fault, treated as non-firing")
			out = nil
		}
	}()
	return a.Analyze(cues)
}

func (e *Engine) applyDirective(sess *RoleplaySession, d Directive, turn int) ResponseDecision {
	switch d.Kind {
	case DirectiveSceneSet:
		sess.Start(turn, true, d.Participants)
		return none(fmt.Sprintf("narrator scene-set with %d participant(s)", len(d.Participants)))
	case DirectivePersonaLine:
		sess.AddTurn(e.cfg.PersonaName, d.Content, turn)
		sess.MarkResponseTurn(turn)
		return none("narrator puppeted persona line recorded")
	default: // DirectiveSceneEnd
		sess.End("narrator directive")
		return none("narrator scene-end")
	}
}

func (e *Engine) toDecision(channelID string, cues *ContextualCues, res Resolution) ResponseDecision {
	if res.Kind == ResponseNone || res.Kind == ResponseObserve || res.Winner == nil {
		return none(res.Reasoning)
	}

	style, tone, approach := StyleFor(res.Kind)
	dec := ResponseDecision{
		ShouldRespond:    true,
		Type:             res.Kind,
		Confidence:       res.Confidence,
		Reasoning:        res.Reasoning,
		Style:            style,
		Tone:             tone,
		Approach:         approach,
		AddressCharacter: res.Winner.Addressee,
	}
	if dec.AddressCharacter != "" {
		p := e.registry.Profile(channelID, dec.AddressCharacter)
		dec.RelationshipTone = RelationshipTone(p)
	}
	return dec
}

// none is the safe default: no response, type none. Reasoning is always
// populated for audit.
func none(reasoning string) ResponseDecision {
	if reasoning == "" {
		reasoning = "no response warranted"
	}
	return ResponseDecision{ShouldRespond: false, Type: ResponseNone, Reasoning: reasoning}
}

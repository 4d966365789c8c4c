package wire

import (
	"encoding/json"
	"strings"

	"go.uber.org/zap"
)

// Parser turns decoded lines into envelopes. A malformed line is logged and
// skipped; it must never take the stream down with it.
type Parser struct {
	audioBase string
	log       *zap.Logger
}

func NewParser(audioBase string, log *zap.Logger) *Parser {
	return &Parser{audioBase: audioBase, log: log}
}

// rawLine covers both wire shapes plus the legacy batch wrapper. The two
// description spellings come from two server generations; event_description
// is the older one.
type rawLine struct {
	Batch  []json.RawMessage `json:"batch"`
	Type   string            `json:"type"`
	Minute int               `json:"minute"`
	Score  *Score            `json:"score"`
	Stats  *Stats            `json:"stats"`
	Event  *rawEvent         `json:"event"`
}

type rawEvent struct {
	Type             string `json:"type"`
	Team             string `json:"team"`
	Description      string `json:"description"`
	EventDescription string `json:"event_description"`
	AudioURL         string `json:"audio_url"`
}

// ParseLine parses one non-blank line into zero or more envelopes in display
// order. Batch wrappers are flattened; their children keep array order.
func (p *Parser) ParseLine(line string) []Envelope {
	var raw rawLine
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		p.log.Warn("skipping malformed frame", zap.Error(err), zap.String("line", truncate(line, 120)))
		return nil
	}

	if raw.Batch != nil {
		envs := make([]Envelope, 0, len(raw.Batch))
		for _, item := range raw.Batch {
			var inner rawLine
			if err := json.Unmarshal(item, &inner); err != nil {
				p.log.Warn("skipping malformed batch item", zap.Error(err))
				continue
			}
			if env, ok := p.fromRaw(inner); ok {
				envs = append(envs, env)
			}
		}
		return envs
	}

	if env, ok := p.fromRaw(raw); ok {
		return []Envelope{env}
	}
	return nil
}

func (p *Parser) fromRaw(raw rawLine) (Envelope, bool) {
	env := Envelope{Minute: raw.Minute, Score: raw.Score, Stats: raw.Stats}

	if raw.Type == "minute_update" {
		return env, true
	}

	if raw.Event == nil {
		p.log.Warn("skipping frame with no recognizable shape", zap.String("type", raw.Type))
		return Envelope{}, false
	}

	desc := raw.Event.Description
	if desc == "" {
		desc = raw.Event.EventDescription
	}
	env.Event = &Event{
		Kind:        Kind(raw.Event.Type),
		Team:        Side(raw.Event.Team),
		Description: desc,
		AudioURL:    p.ResolveAudioURL(raw.Event.AudioURL),
	}
	return env, true
}

// ResolveAudioURL prefixes a relative audio ref with the configured base.
// Absolute refs pass through untouched. Pure, no side effects.
func (p *Parser) ResolveAudioURL(ref string) string {
	if ref == "" {
		return ""
	}
	if strings.Contains(ref, "://") {
		return ref
	}
	return strings.TrimRight(p.audioBase, "/") + "/" + strings.TrimLeft(ref, "/")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package prompt

import (
	"strings"
	"time"

	"github.com/sandevgo/everebot/internal/core"
)

const (
	segmentStart = "<|im_start|>"
	segmentEnd   = "<|im_end|>"
)

// TimestampLayout is how the current time is written into the system segment.
const TimestampLayout = time.DateTime

type Input struct {
	Persona    core.Persona
	SpeakingTo string
	Now        time.Time
	History    []core.Record
}

// Compose renders the persona, the addressed user and the history into one
// ChatML document that ends with an open assistant turn.
func Compose(in Input) string {
	parts := make([]string, 0, len(in.History)+2)
	parts = append(parts, segment(core.RoleSystem, System(in)))

	for _, r := range in.History {
		parts = append(parts, segment(Role(in.Persona, r), r.Text))
	}

	parts = append(parts, segmentStart+core.RoleAssistant)
	return strings.Join(parts, "\n")
}

// System builds the system segment body.
func System(in Input) string {
	var b strings.Builder
	b.WriteString("It is currently ")
	b.WriteString(in.Now.Format(TimestampLayout))
	b.WriteString(". You are ")
	b.WriteString(in.Persona.Name)
	b.WriteString(".\n\n")
	if in.Persona.Description != "" {
		b.WriteString(in.Persona.Description)
		b.WriteString("\n\n")
	}
	b.WriteString("You are talking to ")
	b.WriteString(in.SpeakingTo)
	b.WriteString(".")
	if in.Persona.Instructions != "" {
		b.WriteString(" ")
		b.WriteString(in.Persona.Instructions)
	}
	return b.String()
}

// Role is assistant for records written by the persona and user otherwise.
func Role(p core.Persona, r core.Record) string {
	if r.Author == p.Name {
		return core.RoleAssistant
	}
	return core.RoleUser
}

func segment(role, text string) string {
	return segmentStart + role + "\n" + text + segmentEnd
}

package core

import "fmt"

// Surface identifies where a message was posted. GroupID is empty for
// direct conversations.
type Surface struct {
	GroupID       string
	ChannelID     string
	ParticipantID string
}

func (s Surface) IsGroup() bool {
	return s.GroupID != ""
}

// Key derives the context key naming this surface's history. Group and
// direct keys use distinct prefixes so the two never collide.
func (s Surface) Key() string {
	if s.IsGroup() {
		return fmt.Sprintf("server-%s-channel-%s", s.GroupID, s.ChannelID)
	}
	return fmt.Sprintf("dm-%s", s.ParticipantID)
}

package core

import (
	"strings"
	"testing"
)

func TestSurface_Key(t *testing.T) {
	tests := []struct {
		name    string
		surface Surface
		want    string
	}{
		{
			name:    "group channel",
			surface: Surface{GroupID: "G", ChannelID: "C", ParticipantID: "P"},
			want:    "server-G-channel-C",
		},
		{
			name:    "discord snowflakes",
			surface: Surface{GroupID: "1122334455", ChannelID: "998877", ParticipantID: "42"},
			want:    "server-1122334455-channel-998877",
		},
		{
			name:    "direct message",
			surface: Surface{ChannelID: "777", ParticipantID: "12345"},
			want:    "dm-12345",
		},
		{
			name:    "direct message ignores channel",
			surface: Surface{ParticipantID: "99"},
			want:    "dm-99",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.surface.Key(); got != tt.want {
				t.Errorf("Key() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSurface_KeyNamespacesDisjoint(t *testing.T) {
	ids := []string{"1", "dm", "server", "dm-1", "x-channel-y", ""}
	for _, g := range ids {
		if g == "" {
			continue
		}
		for _, c := range ids {
			group := Surface{GroupID: g, ChannelID: c}.Key()
			for _, p := range ids {
				direct := Surface{ParticipantID: p}.Key()
				if group == direct {
					t.Fatalf("group key %q collides with direct key", group)
				}
				if !strings.HasPrefix(group, "server-") || !strings.HasPrefix(direct, "dm-") {
					t.Fatalf("unexpected prefixes: %q %q", group, direct)
				}
			}
		}
	}
}

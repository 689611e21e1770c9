package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Token    string        `env:"TOKEN,required,notEmpty"`
	Owner    int64         `env:"OWNER_ID"`
	Timeout  time.Duration `env:"TIMEOUT"`
	Debug    bool          `env:"DEBUG"`
	Greeting string        `env:"GREETING"`
	Skipped  string
	hidden   string `env:"HIDDEN"`
}

func TestMarshalEnv(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{
			name: "zero values omitted",
			in:   sample{},
			want: "",
		},
		{
			name: "all kinds",
			in: sample{
				Token:   "abc:123",
				Owner:   42,
				Timeout: 90 * time.Second,
				Debug:   true,
				Skipped: "x",
				hidden:  "y",
			},
			want: "TOKEN=abc:123\nOWNER_ID=42\nTIMEOUT=1m30s\nDEBUG=true\n",
		},
		{
			name: "quoted when needed",
			in:   sample{Greeting: `hi #1 "there"`},
			want: "GREETING=\"hi #1 \\\"there\\\"\"\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalEnv(&tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalEnv_RejectsNonStructPointer(t *testing.T) {
	_, err := MarshalEnv(sample{})
	assert.Error(t, err)

	s := "x"
	_, err = MarshalEnv(&s)
	assert.Error(t, err)
}

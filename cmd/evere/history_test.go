package main

import (
	"bytes"
	"testing"

	"github.com/sandevgo/everebot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer

	printHistory(&buf, "dm-99", []core.Record{
		core.NewRecord("Bob", "hi").WithExtra("author_id", "99"),
		core.NewRecord("Evere", "Mornin Homie"),
	})

	out := buf.String()
	assert.Contains(t, out, "dm-99 (2 records)")
	assert.Contains(t, out, "hi\n")
	assert.Contains(t, out, "author_id=99")
	assert.Contains(t, out, "Mornin Homie\n")
}

package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one message of a conversation history. Records are values: a
// history changes by replacing records, never by editing them.
type Record struct {
	Author string
	Text   string
	Extra  Attributes
}

func NewRecord(author, text string) Record {
	return Record{Author: author, Text: text}
}

// WithExtra returns a copy of r carrying an additional attribute.
func (r Record) WithExtra(key, value string) Record {
	extra := make(Attributes, len(r.Extra)+1)
	for k, v := range r.Extra {
		extra[k] = v
	}
	extra[key] = value
	r.Extra = extra
	return r
}

type recordJSON struct {
	Author string     `json:"author"`
	Text   string     `json:"text"`
	Extra  Attributes `json:"kwargs"`
}

func (r Record) MarshalJSON() ([]byte, error) {
	extra := r.Extra
	if extra == nil {
		extra = Attributes{}
	}
	return json.Marshal(recordJSON{Author: r.Author, Text: r.Text, Extra: extra})
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw struct {
		Author *string    `json:"author"`
		Text   *string    `json:"text"`
		Extra  Attributes `json:"kwargs"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Author == nil || raw.Text == nil {
		return fmt.Errorf("record requires author and text")
	}
	r.Author = *raw.Author
	r.Text = *raw.Text
	r.Extra = raw.Extra
	return nil
}

// Attributes holds auxiliary named values of a record. JSON scalars are
// accepted on decode and kept in their textual form.
type Attributes map[string]string

func (a *Attributes) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*a = nil
		return nil
	}

	out := make(Attributes, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case nil:
			out[k] = ""
		case string:
			out[k] = val
		case bool:
			out[k] = strconv.FormatBool(val)
		case float64:
			out[k] = strconv.FormatFloat(val, 'f', -1, 64)
		default:
			return fmt.Errorf("attribute %q is not a scalar", k)
		}
	}
	*a = out
	return nil
}

package core

const (
	EvereName          = "Evere"
	EvereRepositoryURL = "https://github.com/sandevgo/everebot"
	EvereVersion       = "0.1.0"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Persona is the identity the reply generator is asked to play.
type Persona struct {
	Name         string
	Description  string
	Instructions string
	Greeting     []GreetingLine
}

// GreetingLine is one record of the canned exchange used to reseed a cleared
// history. FromPersona lines are authored by the persona, the rest by the
// person who asked for the clear.
type GreetingLine struct {
	FromPersona bool
	Text        string
}

// Seed renders the greeting as records addressed to userName.
func (p Persona) Seed(userName string) []Record {
	records := make([]Record, 0, len(p.Greeting))
	for _, line := range p.Greeting {
		author := userName
		if line.FromPersona {
			author = p.Name
		}
		records = append(records, NewRecord(author, line.Text))
	}
	return records
}

// PersonaSource yields the persona in effect right now.
type PersonaSource interface {
	Current() Persona
}

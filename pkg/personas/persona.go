package personas

import (
	"strings"
	"time"

	"github.com/huandu/go-clone"
)

const DefaultGreeting = "Hi! How can I help you today?"

// Persona is a chat partner with its own priming instruction. Only ID and
// Instruction matter to the conversation core; the rest is display metadata.
type Persona struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Instruction string    `yaml:"instruction" json:"instruction"`
	Color       string    `yaml:"color,omitempty" json:"color,omitempty"`
	Greeting    string    `yaml:"greeting,omitempty" json:"greeting,omitempty"`
	IsBuiltIn   bool      `yaml:"-" json:"isBuiltIn"`
	CreatedAt   time.Time `yaml:"-" json:"createdAt"`
}

func (p *Persona) Clone() *Persona {
	if p == nil {
		return nil
	}
	return clone.Clone(p).(*Persona)
}

// WelcomeText is shown in place of an empty conversation.
func (p *Persona) WelcomeText() string {
	if p == nil || strings.TrimSpace(p.Greeting) == "" {
		return DefaultGreeting
	}
	return p.Greeting
}

func (p *Persona) Validate() error {
	if p == nil {
		return &ValidationError{Field: "persona", Reason: "must not be nil"}
	}
	id, err := ParseID(p.ID)
	if err != nil {
		return err
	}
	if strings.TrimSpace(p.Name) == "" {
		return &ValidationError{PersonaID: id, Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(p.Instruction) == "" {
		return &ValidationError{PersonaID: id, Field: "instruction", Reason: "must not be empty"}
	}
	return nil
}

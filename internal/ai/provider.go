package ai

import "fmt"

// Message is one chat message in provider wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Provider generates one reply from a message list.
type Provider interface {
	Generate(messages []Message) (string, error)
}

// NewProvider returns the provider selected by name.
func NewProvider(name string) (Provider, error) {
	switch name {
	case "pollinations", "":
		return NewPollinationsProvider(), nil
	case "g4f":
		return NewG4FProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", name)
	}
}

package chat

// Chat message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SystemPreamble heads every conversation sent to the completions endpoint.
const SystemPreamble = "You are GitHub Copilot, an AI programming assistant."

// Message is one chat turn on the wire.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Exchange is one completed prompt/response pair.
type Exchange struct {
	Prompt   string `json:"prompt"`
	Response string `json:"response"`
}

// Conversation accumulates exchanges so follow-up prompts carry their
// history.
type Conversation struct {
	Exchanges []Exchange `json:"exchanges"`
}

// Add records a completed exchange.
func (c *Conversation) Add(prompt, response string) {
	c.Exchanges = append(c.Exchanges, Exchange{Prompt: prompt, Response: response})
}

// BuildMessages replays the conversation as (user, assistant) pairs and
// appends the new prompt as a user turn. The system preamble is injected
// at the head when the history carries no system message.
func BuildMessages(conv *Conversation, prompt string) []Message {
	var msgs []Message
	if conv != nil {
		for _, ex := range conv.Exchanges {
			msgs = append(msgs,
				Message{Role: RoleUser, Content: ex.Prompt},
				Message{Role: RoleAssistant, Content: ex.Response},
			)
		}
	}

	if len(msgs) == 0 {
		return []Message{
			{Role: RoleSystem, Content: SystemPreamble},
			{Role: RoleUser, Content: prompt},
		}
	}

	if !hasRole(msgs, RoleSystem) {
		msgs = append([]Message{{Role: RoleSystem, Content: SystemPreamble}}, msgs...)
	}
	return append(msgs, Message{Role: RoleUser, Content: prompt})
}

func hasRole(msgs []Message, role string) bool {
	for _, m := range msgs {
		if m.Role == role {
			return true
		}
	}
	return false
}

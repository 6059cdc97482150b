package brain

// Role tags a message in the conversation history.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation history. The ordered sequence of
// messages is the literal prompt context sent to the provider.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// History is the ordered message log. Index 0 is always the system message
// and is never evicted by trimming. History is not safe for concurrent use;
// the Brain serializes access.
type History struct {
	msgs []Message
	max  int // messages retained beyond the system message
}

// NewHistory creates a history seeded with the system message.
func NewHistory(systemPrompt string, maxHistory int) *History {
	if maxHistory < 1 {
		maxHistory = 1
	}
	return &History{
		msgs: []Message{{Role: RoleSystem, Content: systemPrompt}},
		max:  maxHistory,
	}
}

// Append adds a message to the end of the log.
func (h *History) Append(role Role, content string) {
	h.msgs = append(h.msgs, Message{Role: role, Content: content})
}

// Trim bounds the log to the system message plus the most recent max
// messages. It runs after every turn, so the length never exceeds max+1
// once a turn completes.
func (h *History) Trim() {
	if len(h.msgs) <= h.max+1 {
		return
	}
	trimmed := make([]Message, 0, h.max+1)
	trimmed = append(trimmed, h.msgs[0])
	trimmed = append(trimmed, h.msgs[len(h.msgs)-h.max:]...)
	h.msgs = trimmed
}

// Reset clears everything back to just the system message.
func (h *History) Reset() {
	h.msgs = h.msgs[:1]
}

// Messages returns a copy of the log.
func (h *History) Messages() []Message {
	out := make([]Message, len(h.msgs))
	copy(out, h.msgs)
	return out
}

// Len returns the number of stored messages, including the system message.
func (h *History) Len() int {
	return len(h.msgs)
}

// System returns the system message content.
func (h *History) System() string {
	return h.msgs[0].Content
}

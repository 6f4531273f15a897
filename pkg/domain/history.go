package domain

// Topic names a conversation history.
type Topic string

const (
	TopicMap    Topic = "map"
	TopicCombat Topic = "combat"
)

// Topics lists every known history topic.
var Topics = []Topic{TopicMap, TopicCombat}

// Valid reports whether t is a known topic.
func (t Topic) Valid() bool {
	for _, known := range Topics {
		if t == known {
			return true
		}
	}
	return false
}

// Role of a message author.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one turn of a conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

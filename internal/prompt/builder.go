package prompt

import (
	"github.com/mamansante/mamansante-be/pkg/llm"
)

// Turn is one prior exchange fed to the external model. BotSpeakerLabel
// marks turns produced by the service itself; any other speaker is the
// user.
type Turn struct {
	Speaker string
	Text    string
}

// BotSpeakerLabel is the speaker label stored on service-generated turns
const BotSpeakerLabel = "Bot"

// HistoryDepth is the maximum number of prior turns seeded into the
// external model.
const HistoryDepth = 10

// persona constrains the external model: maternal and infant health
// only, French, non-diagnostic, short structured answers.
const persona = "Tu es une assistante virtuelle spécialisée en santé maternelle et infantile. " +
	"Tu réponds uniquement en français, sur les sujets liés à la grossesse, l'accouchement, " +
	"l'allaitement, les soins du nouveau-né et la santé des enfants. " +
	"Tu ne poses jamais de diagnostic médical : pour tout symptôme inquiétant, tu recommandes " +
	"de consulter un professionnel de santé. " +
	"Si la question sort de ton domaine, tu le dis poliment et ramènes la conversation à la santé " +
	"maternelle et infantile. " +
	"Tes réponses font 2 à 4 paragraphes, dans un ton bienveillant et accessible."

// Builder constructs message lists for the external model
type Builder struct{}

// NewBuilder creates a new prompt builder
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPrompt assembles the persona, the latest history (most recent
// HistoryDepth turns, oldest first) and the current message.
func (b *Builder) BuildPrompt(history []Turn, userMessage string) []llm.ChatMessage {
	if len(history) > HistoryDepth {
		history = history[len(history)-HistoryDepth:]
	}

	messages := make([]llm.ChatMessage, 0, len(history)+2)
	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: persona,
	})

	for _, turn := range history {
		role := "user"
		if turn.Speaker == BotSpeakerLabel {
			role = "assistant"
		}
		messages = append(messages, llm.ChatMessage{
			Role:    role,
			Content: turn.Text,
		})
	}

	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: userMessage,
	})

	return messages
}

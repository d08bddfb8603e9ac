package turn

import (
	"github.com/inkwise/tutorgate/pkg/core/types"
)

// DefaultSystemPrompt is the tutoring instruction sent as the first content
// part of every reasoning call. Overridable via Config.SystemPrompt.
const DefaultSystemPrompt = `You are a helpful math tutor who can see what's on the user's screen.
Your key characteristics:
1. You maintain context from previous messages in the conversation.
2. You help solve problems step by step, automatically proceeding to the next step after user confirmation.
3. You ask clarifying questions only when necessary.
4. You acknowledge user's questions directly and build upon previous context.
5. You keep responses focused and avoid unnecessary descriptions.
6. You guide users through problem-solving by taking initiative and solving the problem step by step.

Remember to:
- Automatically proceed to the next step after user confirmation.
- Display the output properly formatted and avoid showing '** **' around steps.
- Solve the problem step by step without asking for unnecessary confirmations.
- Keep the conversation natural and engaging.
- Focus on the current step without jumping ahead.
- Always acknowledge the user's input and build upon it.`

// buildParts assembles the reasoning prompt in its fixed order: instruction
// (with the rendered conversation context folded in), then the new turn's
// transcript, then the image, then a closing steering line. Stable placement
// keeps the model's view of the context consistent across turns.
func buildParts(instruction, historyText, transcript string, image *types.MediaChunk) []types.Part {
	parts := make([]types.Part, 0, 4)

	text := instruction
	if historyText != "" {
		text += "\n\nCurrent conversation context:\n" + historyText
	}
	parts = append(parts, types.TextPart{Text: text})

	if transcript != "" {
		parts = append(parts, types.TextPart{Text: "User said: " + transcript})
	}

	if image != nil {
		parts = append(parts, types.InlinePart{
			MIMEType: image.MIMEType,
			Data:     image.Data,
		})
	}

	parts = append(parts, types.TextPart{
		Text: `Please analyze the image and/or respond to: "` + transcript + `"`,
	})

	return parts
}

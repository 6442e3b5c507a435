package answer

// SystemPrompt is the fixed system-role instruction for every completion.
const SystemPrompt = "You are a helpful assistant for CV Q&A."

// promptFrame is the fixed framing sentence embedded in the user prompt.
const promptFrame = "You are an expert assistant answering questions about John Britton's CV. " +
	"Use only the provided context. Cite sources if possible."

// composePrompt embeds the retrieved context block and the sanitized
// question into a single instruction string.
func composePrompt(contextBlock, question string) string {
	return promptFrame + "\n\nContext:\n" + contextBlock + "\n\nUser question: " + question
}

package llm

var (
	CompletionsTotal     = completionsTotal
	RenderTranscript     = renderTranscript
	ValidateConversation = validateConversation
)

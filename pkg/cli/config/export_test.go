package config

// NewGeminiForTest creates a Gemini config for testing purposes
func NewGeminiForTest(projectID, location string) *Gemini {
	return &Gemini{
		projectID: projectID,
		location:  location,
	}
}

func (g *Gemini) Model() string { return g.model }

// NewLLMForTest creates an LLM config for testing purposes
func NewLLMForTest(backend, openaiAPIKey, openaiModel string) *LLM {
	return &LLM{
		backend:      backend,
		openaiAPIKey: openaiAPIKey,
		openaiModel:  openaiModel,
	}
}

// NewSlackForTest creates a Slack config for testing purposes
func NewSlackForTest(botToken, channelID string) *Slack {
	return &Slack{
		botToken:  botToken,
		channelID: channelID,
	}
}

// NewLoggerForTest creates a Logger config for testing purposes
func NewLoggerForTest(level, format, output string) *Logger {
	return &Logger{
		level:  level,
		format: format,
		output: output,
	}
}

// NewPromptForTest creates a Prompt config for testing purposes
func NewPromptForTest(profilePath string) *Prompt {
	return &Prompt{profilePath: profilePath}
}

// NewRepositoryForTest creates a Repository config for testing purposes
func NewRepositoryForTest(backend, projectID string) *Repository {
	return &Repository{
		backend:   backend,
		projectID: projectID,
	}
}

package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/interfaces"
)

// NewLLMService creates the configured AI provider.
func NewLLMService(config *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch config.LLM.DefaultProvider {
	case common.LLMProviderClaude:
		return NewClaudeService(&config.Claude, logger)
	case common.LLMProviderGemini, "":
		return NewGeminiService(&config.Gemini, logger)
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", config.LLM.DefaultProvider)
	}
}

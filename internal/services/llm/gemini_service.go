package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/sentio/internal/common"
	"github.com/ternarybob/sentio/internal/interfaces"
	"google.golang.org/genai"
)

// GeminiService implements the LLMService interface using the Google Gemini
// API.
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiService creates a new Gemini LLM service instance.
func NewGeminiService(geminiConfig *common.GeminiConfig, logger arbor.ILogger) (*GeminiService, error) {
	// Resolve API key with environment variable priority
	apiKey, err := common.ResolveAPIKey("SENTIO_GEMINI_API_KEY", geminiConfig.APIKey)
	if err != nil {
		return nil, fmt.Errorf("Google API key is required for Gemini service (set via SENTIO_GEMINI_API_KEY or gemini.api_key in config): %w", err)
	}

	// Set default model name if not specified
	if geminiConfig.Model == "" {
		geminiConfig.Model = "gemini-2.0-flash"
	}

	// Parse timeout duration
	timeout, err := time.ParseDuration(geminiConfig.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout duration '%s': %w", geminiConfig.Timeout, err)
	}

	// Initialize genai client
	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	service := &GeminiService{
		config:  geminiConfig,
		logger:  logger,
		client:  client,
		timeout: timeout,
	}

	logger.Debug().
		Str("model", geminiConfig.Model).
		Dur("timeout", timeout).
		Float32("temperature", geminiConfig.Temperature).
		Msg("Gemini LLM service initialized successfully")

	return service, nil
}

// Analyze produces a structured sentiment analysis for one day of snapshots.
func (s *GeminiService) Analyze(ctx context.Context, req *interfaces.AnalysisRequest) (*interfaces.AnalysisResult, error) {
	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	startTime := time.Now()
	s.logger.Debug().
		Str("symbol", req.Symbol).
		Str("date", req.Date).
		Int("snapshots", len(req.Snapshots)).
		Int("news", len(req.News)).
		Msg("Starting Gemini sentiment analysis")

	response, err := s.generateCompletion(timeoutCtx, analysisSystemPrompt, buildAnalysisPrompt(req))
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("symbol", req.Symbol).
			Msg("Gemini sentiment analysis failed")
		return nil, fmt.Errorf("sentiment analysis failed: %w", err)
	}

	result, err := parseAnalysisResponse(response)
	if err != nil {
		return nil, fmt.Errorf("invalid Gemini analysis response: %w", err)
	}

	s.logger.Debug().
		Str("symbol", req.Symbol).
		Int("sentiment_score", result.SentimentScore).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini sentiment analysis completed")

	return result, nil
}

// HealthCheck verifies the Gemini service is operational with a lightweight
// connectivity probe.
func (s *GeminiService) HealthCheck(ctx context.Context) error {
	s.logger.Debug().Msg("Running Gemini LLM service health check")

	healthCheckCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	response, err := s.generateCompletion(healthCheckCtx, "", "ping")
	if err != nil {
		return fmt.Errorf("Gemini health check failed: %w", err)
	}
	if len(strings.TrimSpace(response)) == 0 {
		return fmt.Errorf("Gemini probe returned empty response")
	}

	s.logger.Debug().
		Str("model", s.config.Model).
		Msg("Gemini LLM service health check passed")

	return nil
}

// Close releases resources and performs cleanup operations.
func (s *GeminiService) Close() error {
	s.logger.Debug().Msg("Closing Gemini LLM service")
	// genai client doesn't require explicit cleanup
	return nil
}

// generateCompletion encapsulates the Gemini API completion logic.
func (s *GeminiService) generateCompletion(ctx context.Context, system, prompt string) (string, error) {
	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{genai.NewPartFromText(prompt)},
		},
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(s.config.Temperature),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.config.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("Gemini API call failed: %w", err)
	}

	// Extract text from response, trying each candidate until text is found
	var response strings.Builder
	if resp != nil && len(resp.Candidates) > 0 {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}

	if response.Len() == 0 {
		return "", fmt.Errorf("no response generated from Gemini API")
	}

	return response.String(), nil
}

package llm

import (
	"testing"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/stretchr/testify/assert"
)

func TestTextFromContent(t *testing.T) {
	blocks := []anthropic.ContentBlockUnion{
		{Type: "text", Text: "first"},
		{Type: "tool_use"},
		{Type: "text", Text: " second"},
	}

	assert.Equal(t, "first second", textFromContent(blocks))
}

func TestTextFromContentEmpty(t *testing.T) {
	assert.Equal(t, "", textFromContent(nil))
	assert.Equal(t, "", textFromContent([]anthropic.ContentBlockUnion{{Type: "tool_use"}}))
}

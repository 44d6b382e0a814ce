package llm

import (
	"context"
	"fmt"
	"strings"
)

// MockClient provides deterministic local replies when no API key is set.
type MockClient struct{}

func NewMockClient() *MockClient { return &MockClient{} }

func (c *MockClient) Complete(ctx context.Context, req Request) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	prompt := strings.TrimSpace(req.UserPrompt)
	if prompt == "" {
		return "No customer history was provided.", nil
	}
	lines := strings.Count(prompt, "\n") + 1
	return fmt.Sprintf("Mock recommendation based on %d prompt lines: contact the customer and agree on a repayment schedule.", lines), nil
}

// Package intent classifies incoming chat queries so the assistant can
// route them to the right pipeline before any retrieval happens.
package intent

import (
	"embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Intent is the routing decision for a chat query.
type Intent string

const (
	// UserStoryRequest asks the assistant to draft a structured user story.
	UserStoryRequest Intent = "user_story_request"
	// PseudoCodeRequest asks for pseudocode or an algorithm sketch.
	PseudoCodeRequest Intent = "pseudocode_request"
	// PlainQuery is an ordinary documentation question.
	PlainQuery Intent = "plain_query"
)

type triggerConfig struct {
	UserStory  []string `yaml:"user_story"`
	PseudoCode []string `yaml:"pseudocode"`
}

// Classifier matches queries against trigger phrase lists loaded from the
// embedded YAML configuration.
type Classifier struct {
	userStoryTriggers  []string
	pseudoCodeTriggers []string
}

// NewClassifier loads the embedded trigger configuration.
func NewClassifier() (*Classifier, error) {
	data, err := configFiles.ReadFile("config/triggers.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to read trigger config: %w", err)
	}

	var cfg triggerConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal trigger config: %w", err)
	}

	c := &Classifier{
		userStoryTriggers:  make([]string, 0, len(cfg.UserStory)),
		pseudoCodeTriggers: make([]string, 0, len(cfg.PseudoCode)),
	}
	for _, t := range cfg.UserStory {
		c.userStoryTriggers = append(c.userStoryTriggers, strings.ToLower(t))
	}
	for _, t := range cfg.PseudoCode {
		c.pseudoCodeTriggers = append(c.pseudoCodeTriggers, strings.ToLower(t))
	}

	return c, nil
}

// Classify decides the intent of a query. User story triggers take
// precedence over pseudocode triggers when both match.
func (c *Classifier) Classify(query string) Intent {
	lowered := strings.ToLower(query)

	for _, trigger := range c.userStoryTriggers {
		if strings.Contains(lowered, trigger) {
			return UserStoryRequest
		}
	}
	for _, trigger := range c.pseudoCodeTriggers {
		if strings.Contains(lowered, trigger) {
			return PseudoCodeRequest
		}
	}

	return PlainQuery
}

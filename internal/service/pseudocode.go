package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"techdocs/internal/models"
)

const pseudoCodeSystemPrompt = `You are a software architect sketching a high-level design from product documentation. Respond with a single JSON object and nothing else, shaped as: {"title": string, "technologyStack": {"frontend": string, "backend": string, "database": string}, "components": [string], "dataModels": [string], "apiInterfaces": [string]}. Base the design on the reference documents and the technology stack provided.`

// codePrefix marks queries that explicitly ask for a design sketch. It is
// stripped before building prompts so the model sees only the request text.
const codePrefix = "code:"

// TechnologyStack is the frontend, backend and database mix a design sketch
// targets.
type TechnologyStack struct {
	Frontend string `json:"frontend"`
	Backend  string `json:"backend"`
	Database string `json:"database"`
}

type designSketch struct {
	Title           string          `json:"title"`
	TechnologyStack TechnologyStack `json:"technologyStack"`
	Components      []string        `json:"components"`
	DataModels      []string        `json:"dataModels"`
	APIInterfaces   []string        `json:"apiInterfaces"`
}

// PseudoCodeAgent turns a chat query into a markdown design sketch.
type PseudoCodeAgent struct {
	chat   ChatCompletionClient
	logger *slog.Logger
}

// NewPseudoCodeAgent creates a new pseudocode agent
func NewPseudoCodeAgent(chat ChatCompletionClient, logger *slog.Logger) *PseudoCodeAgent {
	return &PseudoCodeAgent{chat: chat, logger: logger}
}

// Generate produces a markdown design sketch for the query. Without matching
// documents the sketch is built deterministically; with documents the model
// drafts it and the completion is rendered to markdown. A completion that is
// not valid JSON is returned as-is.
func (a *PseudoCodeAgent) Generate(ctx context.Context, query string, assets []*models.Asset) string {
	request := stripCodePrefix(query)
	stack := resolveStack(assets)

	if len(assets) == 0 {
		return renderDesign(genericSketch(request, stack))
	}

	messages := []models.ChatMessage{
		{Role: models.RoleSystem, Content: pseudoCodePrompt(assets, stack)},
		{Role: models.RoleUser, Content: request},
	}

	completion, err := a.chat.Complete(ctx, messages)
	if err != nil {
		a.logger.Error("design sketch completion failed", "error", err)
		return renderDesign(genericSketch(request, stack))
	}

	var sketch designSketch
	if err := json.Unmarshal([]byte(stripCodeFence(completion)), &sketch); err != nil {
		a.logger.Warn("design sketch completion was not valid JSON", "error", err)
		return completion
	}
	if sketch.Title == "" {
		sketch.Title = request
	}

	return renderDesign(&sketch)
}

func stripCodePrefix(query string) string {
	trimmed := strings.TrimSpace(query)
	if len(trimmed) >= len(codePrefix) && strings.EqualFold(trimmed[:len(codePrefix)], codePrefix) {
		trimmed = strings.TrimSpace(trimmed[len(codePrefix):])
	}
	return trimmed
}

// resolveStack picks the technology stack for a sketch from the primary
// retrieved document. A document about the Managed Print Central product
// always uses its known stack; otherwise framework keywords in that document
// override the defaults.
func resolveStack(assets []*models.Asset) TechnologyStack {
	stack := TechnologyStack{
		Frontend: "Angular",
		Backend:  ".NET Core Web API",
		Database: "PostgreSQL",
	}
	if len(assets) == 0 {
		return stack
	}

	content := strings.ToLower(assets[0].Title + "\n" + assets[0].MarkdownContent)
	if strings.Contains(content, "mpc") || strings.Contains(content, "managed print central") {
		return stack
	}

	if strings.Contains(content, "react") && !strings.Contains(content, "angular") {
		stack.Frontend = "React"
	}
	if strings.Contains(content, "node.js") && !strings.Contains(content, ".net core") {
		stack.Backend = "Node.js"
	}
	if strings.Contains(content, "sql server") && !strings.Contains(content, "postgresql") {
		stack.Database = "SQL Server"
	}
	return stack
}

func pseudoCodePrompt(assets []*models.Asset, stack TechnologyStack) string {
	var sb strings.Builder
	sb.WriteString(pseudoCodeSystemPrompt)
	fmt.Fprintf(&sb, "\n\nTechnology stack: frontend %s, backend %s, database %s.\n", stack.Frontend, stack.Backend, stack.Database)
	sb.WriteString("\nReference documents:\n")
	for i, a := range assets {
		fmt.Fprintf(&sb, "\n--- Document %d: %s ---\n%s\n", i+1, a.Title, a.MarkdownContent)
	}
	return sb.String()
}

// genericSketch is the deterministic fallback design used when no documents
// matched or the model is unavailable.
func genericSketch(request string, stack TechnologyStack) *designSketch {
	title := request
	if title == "" {
		title = "System Design Sketch"
	}
	return &designSketch{
		Title:           title,
		TechnologyStack: stack,
		Components: []string{
			"Web client handling user interaction and input validation",
			"API layer exposing REST endpoints with request validation",
			"Service layer implementing the business rules",
			"Data access layer persisting entities to the database",
		},
		DataModels: []string{
			"Core entity with identifier, descriptive fields and audit timestamps",
			"Association entities for relationships between core entities",
		},
		APIInterfaces: []string{
			"GET /api/resources - list resources",
			"GET /api/resources/{id} - fetch a single resource",
			"POST /api/resources - create a resource",
			"PUT /api/resources/{id} - update a resource",
			"DELETE /api/resources/{id} - remove a resource",
		},
	}
}

// renderDesign converts a sketch to markdown, skipping sections that have no
// content.
func renderDesign(sketch *designSketch) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n", sketch.Title)

	if sketch.TechnologyStack != (TechnologyStack{}) {
		sb.WriteString("\n## Technology Stack\n")
		if sketch.TechnologyStack.Frontend != "" {
			fmt.Fprintf(&sb, "- Frontend: %s\n", sketch.TechnologyStack.Frontend)
		}
		if sketch.TechnologyStack.Backend != "" {
			fmt.Fprintf(&sb, "- Backend: %s\n", sketch.TechnologyStack.Backend)
		}
		if sketch.TechnologyStack.Database != "" {
			fmt.Fprintf(&sb, "- Database: %s\n", sketch.TechnologyStack.Database)
		}
	}

	writeListSection(&sb, "Components", sketch.Components)
	writeListSection(&sb, "Data Models", sketch.DataModels)
	writeListSection(&sb, "API Interfaces", sketch.APIInterfaces)

	return sb.String()
}

func writeListSection(sb *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n## %s\n", heading)
	for _, item := range items {
		fmt.Fprintf(sb, "- %s\n", item)
	}
}

package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-research/internal/core/domain"
	"github.com/custodia-labs/sercha-research/internal/logger"
)

// ResearchInput is the input schema for the research tool.
type ResearchInput struct {
	Query  string `json:"query" jsonschema:"the research question to answer from the local corpus"`
	Format string `json:"format,omitempty" jsonschema:"optional export format: json, markdown, yaml or text"`
}

// ResearchOutput is the output schema for the research tool.
type ResearchOutput struct {
	ID              string       `json:"id"`
	Query           string       `json:"query"`
	Synthesis       string       `json:"synthesis"`
	ConfidenceScore float64      `json:"confidence_score"`
	SourcesUsed     []string     `json:"sources_used"`
	Steps           []StepOutput `json:"steps"`
	Export          string       `json:"export,omitempty"`
}

// StepOutput summarises one research step.
type StepOutput struct {
	SubQuery    string  `json:"sub_query"`
	Confidence  float64 `json:"confidence"`
	Broadened   bool    `json:"broadened,omitempty"`
	TopDocument string  `json:"top_document,omitempty"`
	TopScore    float64 `json:"top_score"`
	Error       string  `json:"error,omitempty"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	ID       string         `json:"id" jsonschema:"unique document identifier"`
	Title    string         `json:"title,omitempty" jsonschema:"human-readable title"`
	Content  string         `json:"content" jsonschema:"full text of the document"`
	Metadata map[string]any `json:"metadata,omitempty" jsonschema:"scalar key-value metadata"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	DocumentID string `json:"document_id"`
	Chunks     int    `json:"chunks"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "research",
		Description: "Research a question against the local document corpus and return an evidence-backed report",
	}, s.handleResearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "add_document",
		Description: "Add a document to the local research corpus",
	}, s.handleAddDocument)
}

// handleResearch handles the research tool invocation.
func (s *Server) handleResearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ResearchInput,
) (*mcp.CallToolResult, ResearchOutput, error) {
	report, err := s.ports.Research.Research(ctx, input.Query)
	if err != nil {
		return nil, ResearchOutput{}, err
	}

	output := ResearchOutput{
		ID:              report.ID,
		Query:           report.Query,
		Synthesis:       report.Synthesis,
		ConfidenceScore: report.ConfidenceScore,
		SourcesUsed:     report.SourcesUsed,
		Steps:           make([]StepOutput, len(report.Steps)),
	}
	for i := range report.Steps {
		step := &report.Steps[i]
		out := StepOutput{
			SubQuery:   step.SubQuery,
			Confidence: step.Confidence,
			Broadened:  step.Broadened,
			TopScore:   step.TopScore(),
			Error:      step.Error,
		}
		if best, ok := step.Best(); ok {
			out.TopDocument = best.Chunk.DocumentID
		}
		output.Steps[i] = out
	}

	if format := strings.TrimSpace(input.Format); format != "" {
		rendered, err := s.ports.Research.ExportReport(report, format)
		if err != nil {
			return nil, ResearchOutput{}, err
		}
		output.Export = rendered
	}

	if s.ports.History != nil {
		if err := s.ports.History.Save(ctx, report); err != nil {
			logger.Warn("mcp: archiving report %s: %v", report.ID, err)
		}
	}

	return nil, output, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	doc := domain.Document{
		ID:       input.ID,
		Title:    input.Title,
		Content:  input.Content,
		Metadata: input.Metadata,
	}

	outcome, err := s.ports.Research.AddDocuments(ctx, []domain.Document{doc})
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}
	if len(outcome.Results) != 1 {
		return nil, AddDocumentOutput{}, fmt.Errorf("adding document %s: no result", input.ID)
	}

	result := outcome.Results[0]
	if result.Err != nil {
		return nil, AddDocumentOutput{}, fmt.Errorf("adding document %s: %w", input.ID, result.Err)
	}

	return nil, AddDocumentOutput{DocumentID: result.DocumentID, Chunks: result.Chunks}, nil
}

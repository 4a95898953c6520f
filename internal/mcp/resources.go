// ABOUTME: MCP resource implementations for the workout log.
// ABOUTME: Provides healthplus://active and healthplus://timeline resources.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tmccoy01/healthplus/internal/storage"
	"github.com/tmccoy01/healthplus/internal/timeline"
)

const (
	activeURI   = "healthplus://active"
	timelineURI = "healthplus://timeline"

	// timelineSessions caps how much history the timeline resource renders.
	timelineSessions = 50
)

func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         activeURI,
		Name:        "Active Session",
		Description: "The open workout session with its exercises and sets",
		MIMEType:    "application/json",
	}, s.handleActiveResource)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         timelineURI,
		Name:        "Session Timeline",
		Description: "Completed sessions grouped by day with summaries and durations",
		MIMEType:    "application/json",
	}, s.handleTimelineResource)
}

type timelineDay struct {
	Date     string           `json:"date"`
	Sessions []sessionSummary `json:"sessions"`
}

// Resource handlers

func (s *Server) handleActiveResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	active, err := s.repo.ActiveSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}

	var result any = map[string]any{"active": false}
	if active != nil {
		label, err := s.categoryName(ctx, active.CategoryID)
		if err != nil {
			return nil, err
		}
		result = map[string]any{
			"active":   true,
			"category": label,
			"session":  active,
		}
	}
	return jsonResource(activeURI, result)
}

func (s *Server) handleTimelineResource(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	sessions, err := s.repo.ListSessions(ctx, storage.SessionFilter{ClosedOnly: true, Limit: timelineSessions})
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	categories, err := s.categoryIndex(ctx)
	if err != nil {
		return nil, err
	}

	days := make([]timelineDay, 0)
	for _, sec := range timeline.GroupByDay(sessions, s.cal) {
		day := timelineDay{
			Date:     sec.Start.Format("2006-01-02"),
			Sessions: make([]sessionSummary, 0, len(sec.Sessions)),
		}
		for _, session := range sec.Sessions {
			day.Sessions = append(day.Sessions, toSessionSummary(session, categories))
		}
		days = append(days, day)
	}

	return jsonResource(timelineURI, map[string]any{
		"days":  days,
		"count": countSessions(days),
	})
}

func countSessions(days []timelineDay) int {
	n := 0
	for _, d := range days {
		n += len(d.Sessions)
	}
	return n
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

package mcp

import (
	"context"
	"encoding/json"

	"github.com/Worcesters/basicfit/internal/estimate"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonContents(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) profile(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	p, err := h.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	out := map[string]any{"profile": p}
	if p.WeightKg > 0 && p.HeightCm > 0 {
		now := h.now()
		out["age"] = p.Age(now)
		out["bmi"] = estimate.BMI(p.WeightKg, p.HeightCm)
		out["daily_calories"] = estimate.DailyCalories(p, now)
		out["goal_calories"] = estimate.GoalCalories(p, now)
	}
	return jsonContents(req.Params.URI, out)
}

func (h *handlers) recentSessions(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	end := h.now()
	start := end.AddDate(0, 0, -14)

	sessions, err := h.ds.QuerySessions(ctx, start, end, UserIDFromContext(ctx))
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []models.SessionRecord{}
	}
	return jsonContents(req.Params.URI, sessions)
}

func (h *handlers) machineCatalog(_ context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return jsonContents(req.Params.URI, map[string]any{
		"machines": h.catalog.Machines(),
		"modes":    h.catalog.Modes(),
		"presets":  h.catalog.Presets(),
	})
}

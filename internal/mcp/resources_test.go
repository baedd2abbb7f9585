package mcp

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readReq(uri string) mcp.ReadResourceRequest {
	var req mcp.ReadResourceRequest
	req.Params.URI = uri
	return req
}

func decodeContents(t *testing.T, contents []mcp.ResourceContents, out any) {
	t.Helper()
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok, "contents is %T", contents[0])
	assert.Equal(t, "application/json", text.MIMEType)
	require.NoError(t, json.Unmarshal([]byte(text.Text), out))
}

func TestProfileResource(t *testing.T) {
	h := newTestHandlers(t, &fakeDS{profile: &models.Profile{
		BirthDate: time.Date(1994, 1, 1, 0, 0, 0, 0, time.UTC),
		WeightKg:  80,
		HeightCm:  200,
		Sex:       models.SexMale,
	}}, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC) }

	contents, err := h.profile(context.Background(), readReq("basicfit://profile"))
	require.NoError(t, err)

	var out struct {
		Age int     `json:"age"`
		BMI float64 `json:"bmi"`
	}
	decodeContents(t, contents, &out)
	assert.Equal(t, 30, out.Age)
	assert.InDelta(t, 20, out.BMI, 0.01)
}

func TestProfileResourceMissing(t *testing.T) {
	h := newTestHandlers(t, &fakeDS{}, nil)

	contents, err := h.profile(context.Background(), readReq("basicfit://profile"))
	require.NoError(t, err)

	var out map[string]any
	decodeContents(t, contents, &out)
	assert.Contains(t, out, "profile")
	assert.NotContains(t, out, "bmi")
}

func TestRecentSessionsResource(t *testing.T) {
	h := newTestHandlers(t, &fakeDS{sessions: benchSessions()}, nil)
	h.now = func() time.Time { return time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC) }

	contents, err := h.recentSessions(context.Background(), readReq("basicfit://recent_sessions"))
	require.NoError(t, err)

	var sessions []models.SessionRecord
	decodeContents(t, contents, &sessions)
	require.Len(t, sessions, 1)
	assert.Equal(t, 10, sessions[0].Date.Day())
}

func TestMachineCatalogResource(t *testing.T) {
	h := newTestHandlers(t, &fakeDS{}, nil)

	contents, err := h.machineCatalog(context.Background(), readReq("basicfit://machine_catalog"))
	require.NoError(t, err)

	var out struct {
		Machines []models.Machine `json:"machines"`
		Modes    []any            `json:"modes"`
		Presets  []any            `json:"presets"`
	}
	decodeContents(t, contents, &out)
	assert.Len(t, out.Machines, 17)
	assert.Len(t, out.Modes, 4)
	assert.Len(t, out.Presets, 6)
}

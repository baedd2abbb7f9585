package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/Worcesters/basicfit/internal/estimate"
	"github.com/Worcesters/basicfit/internal/models"
	"github.com/Worcesters/basicfit/internal/progression"
	"github.com/Worcesters/basicfit/internal/recommend"
	"github.com/Worcesters/basicfit/internal/stats"
	"github.com/Worcesters/basicfit/internal/storage"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultTimeRange returns start/end defaulting to the given number of days
// before end.
func defaultTimeRange(startStr, endStr string, days int) (time.Time, time.Time, error) {
	var start, end time.Time
	var err error

	if endStr != "" {
		end, err = parseFlexTime(endStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		end = time.Now()
	}

	if startStr != "" {
		start, err = parseFlexTime(startStr)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	} else {
		start = end.AddDate(0, 0, -days)
	}

	return start, end, nil
}

func parseFlexTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// --- Tool definitions ---

var toolRecommendWeight = mcp.NewTool("recommend_weight",
	mcp.WithDescription("Recommend sets, reps, working weight and rest for the next session on a machine, based on the user's history and goal."),
	mcp.WithString("machine", mcp.Required(), mcp.Description("Exact machine name (e.g. 'Développé couché', 'Squat')")),
	mcp.WithString("goal", mcp.Description("Training goal. Defaults to the profile goal."),
		mcp.Enum("Force", "Prise de masse", "Endurance", "Sèche", "Maintenir", "Perdre du poids")),
	mcp.WithNumber("target_reps", mcp.Description("Optional rep count; with history, the load is derived from the best estimated 1RM for that many reps")),
)

var toolAdaptWeight = mcp.NewTool("adapt_weight",
	mcp.WithDescription("Adjust the load for the next set from the reps just completed against the target. Also returns the best estimated 1RM and the calories spent on the set."),
	mcp.WithString("machine", mcp.Required(), mcp.Description("Exact machine name, used to bound the result")),
	mcp.WithNumber("last_weight", mcp.Required(), mcp.Description("Weight of the set just completed, in kg")),
	mcp.WithNumber("last_reps", mcp.Required(), mcp.Description("Reps completed")),
	mcp.WithNumber("target_reps", mcp.Required(), mcp.Description("Target reps per set")),
)

var toolEstimateOneRepMax = mcp.NewTool("estimate_one_rep_max",
	mcp.WithDescription("Estimate the one-rep max from a set (Brzycki), and optionally the load for a target rep count."),
	mcp.WithNumber("weight", mcp.Required(), mcp.Description("Weight lifted, in kg")),
	mcp.WithNumber("reps", mcp.Required(), mcp.Description("Reps performed")),
	mcp.WithNumber("target_reps", mcp.Description("Optional rep count to derive a working load for")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Query completed training sessions with their exercises, volume, calories and performance label."),
	mcp.WithString("start", mcp.Description("Start date (ISO 8601 or YYYY-MM-DD). Defaults to 30 days ago.")),
	mcp.WithString("end", mcp.Description("End date (ISO 8601 or YYYY-MM-DD). Defaults to now.")),
)

var toolGetStatistics = mcp.NewTool("get_statistics",
	mcp.WithDescription("Aggregate statistics over all sessions: totals, weekly frequency, weight trends per exercise, muscle group distribution, favorite exercises and monthly counts."),
	mcp.WithNumber("top", mcp.Description("Limit favorite exercises to the top N. Defaults to all.")),
)

var toolListMachines = mcp.NewTool("list_machines",
	mcp.WithDescription("List catalog machines with their load bounds and increments."),
	mcp.WithString("muscle_group", mcp.Description("Filter by muscle group"),
		mcp.Enum(models.MuscleChest, models.MuscleBack, models.MuscleLegs, models.MuscleShoulders, models.MuscleArms, models.MuscleCardio)),
)

var toolGetExerciseHistory = mcp.NewTool("get_exercise_history",
	mcp.WithDescription("Per-session performance history for one exercise, oldest first, with its progression trend."),
	mcp.WithString("exercise", mcp.Required(), mcp.Description("Exact exercise or machine name")),
)

var toolGetTrainingVolume = mcp.NewTool("get_training_volume",
	mcp.WithDescription("Weekly or monthly aggregated session counts, minutes, calories, working sets and tonnage."),
	mcp.WithString("start", mcp.Description("Start date. Defaults to 180 days ago.")),
	mcp.WithString("end", mcp.Description("End date. Defaults to now.")),
	mcp.WithString("bucket", mcp.Description("Aggregation period. Defaults to '1 month'."), mcp.Enum("1 week", "1 month")),
)

// --- Tool handlers ---

func jsonResult(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

// loadProfile returns the stored profile, or an empty one if none is stored.
func (h *handlers) loadProfile(ctx context.Context) (models.Profile, error) {
	p, err := h.ds.GetProfile(ctx, UserIDFromContext(ctx))
	if errors.Is(err, storage.ErrNotFound) {
		return models.Profile{}, nil
	}
	if err != nil {
		return models.Profile{}, err
	}
	return *p, nil
}

func (h *handlers) recommendWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	machine, err := req.RequireString("machine")
	if err != nil {
		return mcp.NewToolResultError("machine parameter is required"), nil
	}

	profile, err := h.loadProfile(ctx)
	if err != nil {
		h.log.Error("mcp recommend_weight profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	goal := profile.Goal
	if g := req.GetString("goal", ""); g != "" {
		goal = models.ParseGoal(g)
	}
	if goal == "" {
		goal = models.GoalMaintain
	}

	history, err := h.ds.ExerciseHistory(ctx, machine, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp recommend_weight history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	res := h.engine.Recommend(profile, history, machine, goal)
	if target := req.GetInt("target_reps", 0); target > 0 {
		if load := h.engine.ForTargetReps(history, machine, target); load > 0 {
			res.Reps = target
			res.WeightKg = load
			res.PlateWeightKg = h.engine.Machine(machine).Snap(load)
			res.Strategy = recommend.StrategyTargetReps
		}
	}
	return jsonResult(res)
}

func (h *handlers) adaptWeight(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	machine, err := req.RequireString("machine")
	if err != nil {
		return mcp.NewToolResultError("machine parameter is required"), nil
	}
	lastWeight, err := req.RequireFloat("last_weight")
	if err != nil {
		return mcp.NewToolResultError("last_weight parameter is required"), nil
	}
	lastReps, err := req.RequireInt("last_reps")
	if err != nil {
		return mcp.NewToolResultError("last_reps parameter is required"), nil
	}
	targetReps, err := req.RequireInt("target_reps")
	if err != nil || targetReps <= 0 {
		return mcp.NewToolResultError("target_reps must be a positive number"), nil
	}

	profile, err := h.loadProfile(ctx)
	if err != nil {
		h.log.Error("mcp adapt_weight profile", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	history, err := h.ds.ExerciseHistory(ctx, machine, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp adapt_weight history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	weight := h.engine.Adapt(machine, lastWeight, lastReps, targetReps)
	kcal, oneRM := recommend.SetCalories(profile, history, machine, lastWeight, lastReps, h.now())
	return jsonResult(map[string]any{
		"machine":         machine,
		"weight_kg":       weight,
		"plate_weight_kg": h.engine.Machine(machine).Snap(weight),
		"one_rep_max":     oneRM,
		"set_calories":    kcal,
	})
}

func (h *handlers) estimateOneRepMax(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weight, err := req.RequireFloat("weight")
	if err != nil || weight < 0 {
		return mcp.NewToolResultError("weight must be a non-negative number"), nil
	}
	reps, err := req.RequireInt("reps")
	if err != nil || reps <= 0 {
		return mcp.NewToolResultError("reps must be a positive number"), nil
	}

	oneRM := estimate.OneRepMax(weight, reps)
	out := map[string]any{"one_rep_max": oneRM}
	if target := req.GetInt("target_reps", 0); target > 0 {
		out["target_reps"] = target
		out["weight_for_target"] = estimate.WeightForReps(oneRM, target)
	}
	return jsonResult(out)
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	sessions, err := h.ds.QuerySessions(ctx, start, end, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(sessions)
}

func (h *handlers) getStatistics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	history, err := h.ds.AllSessions(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_statistics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	report := stats.Aggregate(history, h.now())
	if top := req.GetInt("top", 0); top > 0 {
		report.FavoriteExercises = report.Favorites(top)
	}
	return jsonResult(report)
}

func (h *handlers) listMachines(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if group := req.GetString("muscle_group", ""); group != "" {
		return jsonResult(h.catalog.ByMuscleGroup(group))
	}
	return jsonResult(h.catalog.Machines())
}

func (h *handlers) getExerciseHistory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	exercise, err := req.RequireString("exercise")
	if err != nil {
		return mcp.NewToolResultError("exercise parameter is required"), nil
	}

	history, err := h.ds.ExerciseHistory(ctx, exercise, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_exercise_history", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	return jsonResult(map[string]any{
		"exercise": exercise,
		"trend":    progression.Classify(history),
		"history":  history,
	})
}

func (h *handlers) getTrainingVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultTimeRange(req.GetString("start", ""), req.GetString("end", ""), 180)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	bucket := req.GetString("bucket", "1 month")
	periods, err := h.ds.GetVolumeSummary(ctx, start, end, bucket, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp get_training_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return jsonResult(periods)
}

package recommend

import (
	"time"

	"github.com/Worcesters/basicfit/internal/models"
)

// ForMachine prescribes sets, reps, load and rest for the next session on m.
func ForMachine(p models.Profile, history []models.PerformanceRecord, m models.Machine, goal models.Goal, now time.Time) models.RecommendationResult {
	scheme := SchemeFor(goal)
	weight, strategy := smartWeight(history, m, goal)
	return models.RecommendationResult{
		Machine:       m.Name,
		Sets:          scheme.Sets,
		Reps:          scheme.Reps,
		WeightKg:      weight,
		PlateWeightKg: m.Snap(weight),
		RestSeconds:   scheme.RestSeconds,
		Notes:         Notes(goal, p.Age(now), m),
		Strategy:      strategy,
	}
}

// MachineFinder resolves a machine by exact name.
type MachineFinder interface {
	Find(name string) (models.Machine, bool)
}

// Observer is notified of every recommendation made through an Engine.
type Observer interface {
	ObserveRecommendation(strategy string)
}

// GenericMachine stands in for names the catalog does not know.
func GenericMachine(name string) models.Machine {
	return models.Machine{
		Name:        name,
		MuscleGroup: models.MuscleOther,
		WeightMin:   0,
		WeightMax:   200,
		Increment:   2.5,
	}
}

// Engine binds the recommendation strategies to a machine catalog.
type Engine struct {
	machines MachineFinder
	observer Observer
	now      func() time.Time
}

// NewEngine creates an Engine. observer may be nil.
func NewEngine(machines MachineFinder, observer Observer) *Engine {
	return &Engine{machines: machines, observer: observer, now: time.Now}
}

// Machine resolves name through the catalog, falling back to GenericMachine.
func (e *Engine) Machine(name string) models.Machine {
	if e.machines != nil {
		if m, ok := e.machines.Find(name); ok {
			return m
		}
	}
	return GenericMachine(name)
}

// Recommend resolves the machine and runs ForMachine. It never fails.
func (e *Engine) Recommend(p models.Profile, history []models.PerformanceRecord, machineName string, goal models.Goal) models.RecommendationResult {
	res := ForMachine(p, history, e.Machine(machineName), goal, e.now())
	e.observe(res.Strategy)
	return res
}

// Adapt runs AdaptLiveForMachine for a named machine.
func (e *Engine) Adapt(machineName string, lastWeight float64, lastReps, targetReps int) float64 {
	e.observe(StrategyLiveAdapt)
	return AdaptLiveForMachine(e.Machine(machineName), lastWeight, lastReps, targetReps)
}

// ForTargetReps runs WeightForTargetReps, clamped to the machine.
func (e *Engine) ForTargetReps(history []models.PerformanceRecord, machineName string, targetReps int) float64 {
	e.observe(StrategyTargetReps)
	m := e.Machine(machineName)
	w := WeightForTargetReps(history, machineName, targetReps)
	if w == 0 {
		return 0
	}
	return m.Clamp(w)
}

func (e *Engine) observe(strategy string) {
	if e.observer != nil {
		e.observer.ObserveRecommendation(strategy)
	}
}

// Package catalog holds the read-only reference data: machines, training
// modes and workout presets. The default catalog is embedded in the binary.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"
	"time"

	"github.com/Worcesters/basicfit/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultYAML []byte

const maxRecommended = 10

// Mode is a training mode with its recommended set and rep ranges.
type Mode struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Sets        int    `json:"sets" yaml:"sets"`
	RepsMin     int    `json:"reps_min" yaml:"reps_min"`
	RepsMax     int    `json:"reps_max" yaml:"reps_max"`
	RestSeconds int    `json:"rest_seconds" yaml:"rest_seconds"`
}

// Preset is a named workout made of catalog machines.
type Preset struct {
	Name     string   `json:"name" yaml:"name"`
	Focus    string   `json:"focus" yaml:"focus"`
	Machines []string `json:"machines" yaml:"machines"`
}

type file struct {
	Modes    []Mode           `yaml:"modes"`
	Machines []models.Machine `yaml:"machines"`
	Presets  []Preset         `yaml:"presets"`
}

// Catalog indexes machines by exact name. It is safe for concurrent reads.
type Catalog struct {
	modes    []Mode
	machines []models.Machine
	presets  []Preset
	byName   map[string]int
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse(defaultYAML)
}

// Parse builds a catalog from YAML and checks it for consistency.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}

	c := &Catalog{
		modes:    f.Modes,
		machines: f.Machines,
		presets:  f.Presets,
		byName:   make(map[string]int, len(f.Machines)),
	}
	for i, m := range f.Machines {
		if m.Name == "" {
			return nil, fmt.Errorf("machine %d has no name", i)
		}
		if _, dup := c.byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate machine %q", m.Name)
		}
		if m.WeightMin > m.WeightMax {
			return nil, fmt.Errorf("machine %q: weight_min %.1f > weight_max %.1f", m.Name, m.WeightMin, m.WeightMax)
		}
		c.byName[m.Name] = i
	}
	for _, p := range f.Presets {
		for _, name := range p.Machines {
			if _, ok := c.byName[name]; !ok {
				return nil, fmt.Errorf("preset %q references unknown machine %q", p.Name, name)
			}
		}
	}
	return c, nil
}

// Find looks a machine up by exact, case-sensitive name.
func (c *Catalog) Find(name string) (models.Machine, bool) {
	i, ok := c.byName[name]
	if !ok {
		return models.Machine{}, false
	}
	return c.machines[i], true
}

// Machines returns every machine in catalog order.
func (c *Catalog) Machines() []models.Machine {
	return slices.Clone(c.machines)
}

// ByMuscleGroup returns the machines whose primary group is group.
func (c *Catalog) ByMuscleGroup(group string) []models.Machine {
	return c.filter(func(m models.Machine) bool { return m.MuscleGroup == group })
}

// ByCategory returns the machines of one equipment category.
func (c *Catalog) ByCategory(cat models.MachineCategory) []models.Machine {
	return c.filter(func(m models.Machine) bool { return m.Category == cat })
}

func (c *Catalog) filter(keep func(models.Machine) bool) []models.Machine {
	var out []models.Machine
	for _, m := range c.machines {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Modes returns the training modes.
func (c *Catalog) Modes() []Mode {
	return slices.Clone(c.modes)
}

// Presets returns the workout presets.
func (c *Catalog) Presets() []Preset {
	return slices.Clone(c.presets)
}

// Preset resolves a preset's machines.
func (c *Catalog) Preset(name string) ([]models.Machine, bool) {
	for _, p := range c.presets {
		if p.Name != name {
			continue
		}
		out := make([]models.Machine, 0, len(p.Machines))
		for _, n := range p.Machines {
			m, _ := c.Find(n)
			out = append(out, m)
		}
		return out, true
	}
	return nil, false
}

// Recommended picks up to ten machines suited to a profile. Younger users get
// free weights and compound lifts, adults guided machines plus anything at or
// below their level, and seniors guided machines and cardio. Women then get
// the leg machines added, men the upper-body ones.
func (c *Catalog) Recommended(p models.Profile, now time.Time) []models.Machine {
	level := levelFor(p.Activity).Rank()
	age := p.Age(now)

	var picked []models.Machine
	switch {
	case age < 30:
		picked = c.filter(func(m models.Machine) bool {
			return slices.Contains(m.Tags, "polyarticulaire") || m.Category == models.CategoryFreeWeight
		})
	case age <= 50:
		picked = c.filter(func(m models.Machine) bool {
			return m.Category == models.CategoryGuided || m.Difficulty.Rank() <= level
		})
	default:
		picked = c.filter(func(m models.Machine) bool {
			return m.Category == models.CategoryGuided || m.Category == models.CategoryCardio
		})
	}

	if !p.Sex.IsMale() {
		picked = append(picked, c.filter(func(m models.Machine) bool {
			return m.MuscleGroup == models.MuscleLegs || slices.Contains(m.Tags, "fessiers")
		})...)
	} else {
		picked = append(picked, c.filter(func(m models.Machine) bool {
			switch m.MuscleGroup {
			case models.MuscleChest, models.MuscleBack, models.MuscleShoulders:
				return true
			}
			return false
		})...)
	}

	seen := map[string]bool{}
	var out []models.Machine
	for _, m := range picked {
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true
		out = append(out, m)
		if len(out) == maxRecommended {
			break
		}
	}
	return out
}

func levelFor(a models.ActivityLevel) models.Difficulty {
	switch a {
	case models.ActivityModerate:
		return models.DifficultyIntermediate
	case models.ActivityActive:
		return models.DifficultyAdvanced
	case models.ActivityVeryActive:
		return models.DifficultyExpert
	}
	return models.DifficultyBeginner
}

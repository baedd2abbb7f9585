package models

import (
	"strings"
	"time"
)

// DefaultAge is used when a profile has no usable birth date.
const DefaultAge = 25

// Sex selects the calorie multiplier. Only the male-coded value changes
// behaviour; everything else falls into the second category.
type Sex string

const (
	SexMale   Sex = "homme"
	SexFemale Sex = "femme"
)

// IsMale reports whether s is one of the male-coded labels.
func (s Sex) IsMale() bool {
	switch strings.ToLower(strings.TrimSpace(string(s))) {
	case "homme", "male", "m", "h", "man":
		return true
	}
	return false
}

// ActivityLevel is the five-step ordinal activity scale.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "Sédentaire"
	ActivityLight      ActivityLevel = "Léger"
	ActivityModerate   ActivityLevel = "Modéré"
	ActivityActive     ActivityLevel = "Actif"
	ActivityVeryActive ActivityLevel = "Très actif"
)

// Factor returns the TDEE multiplier for the level. Unknown levels are
// treated as moderate.
func (a ActivityLevel) Factor() float64 {
	switch a {
	case ActivitySedentary:
		return 1.2
	case ActivityLight:
		return 1.375
	case ActivityModerate:
		return 1.55
	case ActivityActive:
		return 1.725
	case ActivityVeryActive:
		return 1.9
	}
	return 1.55
}

// Goal is a user's training or body-composition goal.
type Goal string

const (
	GoalMaintain   Goal = "Maintenir"
	GoalLoseWeight Goal = "Perdre du poids"
	GoalGainMass   Goal = "Prise de masse"
	GoalCut        Goal = "Sèche"
	GoalStrength   Goal = "Force"
	GoalEndurance  Goal = "Endurance"
)

var goalAliases = map[string]Goal{
	"maintenir":       GoalMaintain,
	"maintain":        GoalMaintain,
	"perdre du poids": GoalLoseWeight,
	"perdrepoids":     GoalLoseWeight,
	"lose-weight":     GoalLoseWeight,
	"prise de masse":  GoalGainMass,
	"prisedemasse":    GoalGainMass,
	"gain-mass":       GoalGainMass,
	"hypertrophy":     GoalGainMass,
	"sèche":           GoalCut,
	"seche":           GoalCut,
	"cut":             GoalCut,
	"force":           GoalStrength,
	"strength":        GoalStrength,
	"endurance":       GoalEndurance,
}

// ParseGoal maps display names, identifiers and English aliases to a Goal.
// Unknown values fall back to GoalMaintain.
func ParseGoal(s string) Goal {
	if g, ok := goalAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return g
	}
	return GoalMaintain
}

// Profile describes the person training.
type Profile struct {
	BirthDate time.Time     `json:"birth_date"`
	WeightKg  float64       `json:"weight_kg"`
	HeightCm  float64       `json:"height_cm"`
	Sex       Sex           `json:"sex"`
	Activity  ActivityLevel `json:"activity"`
	Goal      Goal          `json:"goal"`
}

// Age returns the age in whole years at now.
func (p Profile) Age(now time.Time) int {
	if p.BirthDate.IsZero() || p.BirthDate.After(now) {
		return DefaultAge
	}
	age := now.Year() - p.BirthDate.Year()
	if now.Month() < p.BirthDate.Month() ||
		(now.Month() == p.BirthDate.Month() && now.Day() < p.BirthDate.Day()) {
		age--
	}
	return age
}

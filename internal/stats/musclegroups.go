package stats

import "github.com/Worcesters/basicfit/internal/models"

type groupRule struct {
	group    string
	keywords []string
}

// groupRules are checked in order. Cardio comes first so "Rower" is not read
// as a row, shoulder presses come before the generic "développé" chest rule
// and hamstring curls before arm curls.
var groupRules = []groupRule{
	{models.MuscleCardio, []string{"cardio", "tapis", "vélo", "velo", "rameur", "elliptique", "treadmill", "bike", "rower"}},
	{models.MuscleShoulders, []string{"militaire", "élévation", "elevation", "épaule", "shoulder"}},
	{models.MuscleChest, []string{"développé", "developpe", "pec", "bench", "chest"}},
	{models.MuscleBack, []string{"tirage", "rowing", "traction", "pulldown", "pull-up", "row"}},
	{models.MuscleLegs, []string{"squat", "leg", "ischio", "quadriceps", "fente", "lunge", "mollet", "calf"}},
	{models.MuscleArms, []string{"curl", "biceps", "triceps", "extension"}},
}

// MuscleGroupFor classifies an exercise name by keywords matched at the start
// of a word, case-insensitively.
func MuscleGroupFor(exercise string) string {
	for _, r := range groupRules {
		if models.MatchesAny(exercise, r.keywords) {
			return r.group
		}
	}
	return models.MuscleOther
}

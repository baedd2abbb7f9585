package recommend

import "github.com/Worcesters/basicfit/internal/models"

// Rest durations in seconds by exercise family.
const (
	RestCardio    = 60
	RestIsolation = 90
	RestCable     = 120
	RestCompound  = 180
	RestDefault   = 120
)

type restRule struct {
	keywords []string
	seconds  int
}

// restRules are checked in order; the first keyword hit wins.
var restRules = []restRule{
	{[]string{"cardio", "tapis", "vélo", "velo", "rameur", "elliptique", "treadmill", "bike", "rower"}, RestCardio},
	{[]string{"curl", "extension", "élévation", "elevation", "pec deck", "fly", "raise"}, RestIsolation},
	{[]string{"câble", "cable", "poulie", "tirage", "pulldown", "rowing", "row"}, RestCable},
	{[]string{"squat", "développé", "developpe", "press", "soulevé", "deadlift", "fente", "lunge"}, RestCompound},
}

// RestSeconds looks up the rest period for an exercise name or category.
// Keywords match at the start of a word, case-insensitively.
func RestSeconds(exerciseOrCategory string) int {
	for _, r := range restRules {
		if models.MatchesAny(exerciseOrCategory, r.keywords) {
			return r.seconds
		}
	}
	return RestDefault
}

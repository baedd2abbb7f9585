// Package estimate holds the pure estimation formulas: one-rep max,
// per-exercise calorie burn and daily energy needs.
package estimate

// MaxReps bounds the rep count fed to the Brzycki formula. Beyond ~36 reps
// the denominator crosses zero.
const MaxReps = 30

// OneRepMax estimates the one-repetition maximum with the Brzycki formula.
// reps <= 1 returns weight unchanged.
func OneRepMax(weight float64, reps int) float64 {
	if weight <= 0 {
		return 0
	}
	reps = clampReps(reps)
	if reps <= 1 {
		return weight
	}
	return weight / (1.0278 - 0.0278*float64(reps))
}

// WeightForReps inverts Brzycki: the load liftable for reps given a 1RM.
func WeightForReps(oneRM float64, reps int) float64 {
	w := oneRM * (1.0278 - 0.0278*float64(clampReps(reps)))
	if w < 0 {
		return 0
	}
	return w
}

func clampReps(reps int) int {
	if reps < 1 {
		return 1
	}
	if reps > MaxReps {
		return MaxReps
	}
	return reps
}

package models

// RecommendationResult is the prescription for the next working sets on a machine.
type RecommendationResult struct {
	Machine       string  `json:"machine"`
	Sets          int     `json:"sets"`
	Reps          int     `json:"reps"`
	WeightKg      float64 `json:"weight_kg"`
	PlateWeightKg float64 `json:"plate_weight_kg"`
	RestSeconds   int     `json:"rest_seconds"`
	Notes         string  `json:"notes"`
	Strategy      string  `json:"strategy"`
}

// ComparisonResult compares one exercise against the previous session of the
// same workout.
type ComparisonResult struct {
	Exercise        string  `json:"exercise"`
	CurrentWeight   float64 `json:"current_weight"`
	PreviousWeight  float64 `json:"previous_weight"`
	CurrentReps     int     `json:"current_reps"`
	PreviousReps    int     `json:"previous_reps"`
	VolumeChangePct float64 `json:"volume_change_pct"`
	IsImprovement   bool    `json:"is_improvement"`
}

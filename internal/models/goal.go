package models

import "time"

// Goal statuses. Completion is one-way: once a goal reaches its target it
// stays completed even if the current amount later drops below the target.
const (
	GoalActive    = "active"
	GoalCompleted = "completed"
)

// Goal is a savings target funded by contributions. CurrentAmount may
// overshoot TargetAmount; overshoot is recorded, never clamped.
type Goal struct {
	ID            int64
	UserUID       string
	Title         string
	TargetAmount  int64 // Centavos
	CurrentAmount int64 // Centavos
	Deadline      time.Time
	Status        string
	CreatedAt     time.Time
}

// DummyGoal receives goal create/update payloads.
type DummyGoal struct {
	Title        string `json:"title" validate:"required,max=128"`
	TargetAmount int64  `json:"target_amount" validate:"required,gt=0"`
	Deadline     string `json:"deadline" validate:"required"`
}

// DummyContribution receives goal contribution payloads. A negative amount
// is a reversal; it lowers the current amount but never reopens the goal.
type DummyContribution struct {
	Amount int64 `json:"amount" validate:"required,ne=0"`
}

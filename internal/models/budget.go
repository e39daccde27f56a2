package models

// BudgetLimit is a monthly spending ceiling for one category. At most one
// limit exists per (user, category). LastNotifiedPeriod records the last
// "2006-01" period for which an over-limit warning was emitted, so repeated
// status reads within the same month do not duplicate the alert.
type BudgetLimit struct {
	ID                 int64
	UserUID            string
	Category           string
	LimitAmount        int64 // Centavos
	LastNotifiedPeriod string
}

// BudgetStatus is the read-path aggregate for one budget limit.
type BudgetStatus struct {
	Category    string `json:"category"`
	LimitAmount int64  `json:"limit_amount"`
	Consumed    int64  `json:"consumed"` // Sum of expense transactions in the current period
	Exceeded    bool   `json:"exceeded"`
}

// DummyBudgetLimit receives budget limit create/update payloads.
type DummyBudgetLimit struct {
	Category    string `json:"category" validate:"required,max=64"`
	LimitAmount int64  `json:"limit_amount" validate:"required,gt=0"`
}

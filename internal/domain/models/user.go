package models

import (
	"time"
)

type UserPlan string

const (
	PlanStarter    UserPlan = "STARTER"
	PlanPro        UserPlan = "PRO"
	PlanEnterprise UserPlan = "ENTERPRISE"
)

// WelcomeBonusTokens is granted once, when the account is created.
const WelcomeBonusTokens int64 = 5000

// TokenAllotment is the balance a plan resets to. Upgrading overwrites the
// balance instead of topping it up.
func (p UserPlan) TokenAllotment() int64 {
	switch p {
	case PlanPro:
		return 25000
	case PlanEnterprise:
		return 100000
	default:
		return 5000
	}
}

func (p UserPlan) Valid() bool {
	switch p {
	case PlanStarter, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

type User struct {
	ID        int64     `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	Plan      UserPlan  `json:"plan" db:"plan"`
	Tokens    int64     `json:"tokens" db:"tokens"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// PlanLimits caps product usage per subscription plan. A limit of -1 means
// unlimited.
type PlanLimits struct {
	Assistants    int64 `json:"assistants"`
	Interactions  int64 `json:"interactions"`
	TeamMembers   int64 `json:"team_members"`
	MonthlyTokens int64 `json:"monthly_tokens"`
}

func (p UserPlan) Limits() PlanLimits {
	switch p {
	case PlanPro:
		return PlanLimits{Assistants: 25, Interactions: 10000, TeamMembers: 10, MonthlyTokens: 25000}
	case PlanEnterprise:
		return PlanLimits{Assistants: -1, Interactions: -1, TeamMembers: -1, MonthlyTokens: 100000}
	default:
		return PlanLimits{Assistants: 5, Interactions: 1000, TeamMembers: 1, MonthlyTokens: 5000}
	}
}

// Package quota implements the plan-gating decision logic: feature keys,
// quota-limited actions and the pure Authorize function applied before every
// gated mutation. Authorize never mutates state; the repository additionally
// closes the check-then-act gap with count-guarded inserts, so two racing
// creates cannot both slip past the limit.
package quota

import (
	"github.com/vitaleevo/holyfinance/internal/lib/errs"
	"github.com/vitaleevo/holyfinance/internal/models"
)

// Feature keys referenced by packages and actions.
const (
	FeatureFamilySharing   = "family_sharing"
	FeatureExportReports   = "export_reports"
	FeatureAIInsights      = "ai_insights"
	FeaturePrioritySupport = "priority_support"
)

// Action names a gated mutation or capability.
type Action string

// Gated actions.
const (
	ActionCreateAccount   Action = "create_account"
	ActionAddFamilyMember Action = "add_family_member"
	ActionAIInsights      Action = "ai_insights"
	ActionExportReports   Action = "export_reports"
)

// featureFor maps feature-gated actions to the feature key they require.
var featureFor = map[Action]string{
	ActionAddFamilyMember: FeatureFamilySharing,
	ActionAIInsights:      FeatureAIInsights,
	ActionExportReports:   FeatureExportReports,
}

// Counts carries the caller's current resource counts at decision time.
type Counts struct {
	Accounts      int
	FamilyMembers int
}

// Authorize decides whether the action is allowed under the given package
// and current counts. It returns nil to allow, *errs.QuotaExceededError or
// *errs.FeatureNotAvailableError to deny.
func Authorize(pkg *models.Package, action Action, counts Counts) error {
	if feature, ok := featureFor[action]; ok && !pkg.HasFeature(feature) {
		return &errs.FeatureNotAvailableError{Feature: feature}
	}

	switch action {
	case ActionCreateAccount:
		if counts.Accounts >= pkg.MaxAccounts {
			return &errs.QuotaExceededError{Resource: "accounts", Limit: pkg.MaxAccounts}
		}
	case ActionAddFamilyMember:
		if counts.FamilyMembers >= pkg.MaxFamilyMembers {
			return &errs.QuotaExceededError{Resource: "family_members", Limit: pkg.MaxFamilyMembers}
		}
	}
	return nil
}

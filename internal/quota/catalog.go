package quota

import "github.com/vitaleevo/holyfinance/internal/models"

// DefaultPackages is the seed catalog. Seeding is a no-op when any package
// row already exists, so it never partially reseeds.
func DefaultPackages() []models.Package {
	return []models.Package{
		{
			Key:              "basic",
			Name:             "Básico",
			Description:      "Controle pessoal de contas e transações",
			PriceMonthly:     990,
			PriceYearly:      9900,
			PriceBiyearly:    17800,
			MaxAccounts:      2,
			MaxFamilyMembers: 1,
			Features:         []string{},
			IsActive:         true,
			SortOrder:        1,
		},
		{
			Key:              "intermediate",
			Name:             "Intermediário",
			Description:      "Compartilhamento familiar e relatórios",
			PriceMonthly:     1990,
			PriceYearly:      19900,
			PriceBiyearly:    35800,
			MaxAccounts:      5,
			MaxFamilyMembers: 3,
			Features:         []string{FeatureFamilySharing, FeatureExportReports},
			IsActive:         true,
			Highlight:        true,
			SortOrder:        2,
		},
		{
			Key:              "advanced",
			Name:             "Avançado",
			Description:      "Tudo do Intermediário, insights de IA e suporte prioritário",
			PriceMonthly:     3990,
			PriceYearly:      39900,
			PriceBiyearly:    71800,
			MaxAccounts:      10,
			MaxFamilyMembers: 10,
			Features: []string{
				FeatureFamilySharing, FeatureExportReports,
				FeatureAIInsights, FeaturePrioritySupport,
			},
			IsActive:  true,
			SortOrder: 3,
		},
	}
}

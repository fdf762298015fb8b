package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var planPrices = map[string]map[string]decimal.Decimal{
	PLAN_BASIC: {
		BILLING_MONTHLY: decimal.NewFromInt(99),
		BILLING_ANNUAL:  decimal.NewFromInt(990),
	},
	PLAN_STANDARD: {
		BILLING_MONTHLY: decimal.NewFromInt(199),
		BILLING_ANNUAL:  decimal.NewFromInt(1990),
	},
	PLAN_PREMIUM: {
		BILLING_MONTHLY: decimal.NewFromInt(299),
		BILLING_ANNUAL:  decimal.NewFromInt(2990),
	},
}

// PlanPrice resolves the subscription price for a plan and billing interval.
func PlanPrice(plan, billing string) (decimal.Decimal, error) {
	p, ok := planPrices[strings.ToLower(strings.TrimSpace(plan))]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown plan: %s", plan)
	}
	price, ok := p[strings.ToLower(strings.TrimSpace(billing))]
	if !ok {
		return decimal.Zero, fmt.Errorf("unknown billing interval: %s", billing)
	}
	return price, nil
}

// PlanDisplayName returns the human readable plan name used in item fields.
func PlanDisplayName(plan string) string {
	switch strings.ToLower(strings.TrimSpace(plan)) {
	case PLAN_BASIC:
		return "Basic"
	case PLAN_STANDARD:
		return "Standard"
	case PLAN_PREMIUM:
		return "Premium"
	default:
		return plan
	}
}

package payfast

import (
	"fmt"
	"strings"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/ManuelReschke/PayFox/internal/pkg/env"
)

const (
	liveProcessURL    = "https://www.payfast.co.za/eng/process"
	sandboxProcessURL = "https://sandbox.payfast.co.za/eng/process"

	// Provider-defined recurrence frequency codes.
	FrequencyMonthly = 3
	FrequencyAnnual  = 6

	// Recurring billing marker for the checkout form.
	SubscriptionTypeRecurring = 1

	// CyclesIndefinite keeps the subscription running until canceled.
	CyclesIndefinite = 0
)

// ConfigError reports missing merchant configuration. It is distinct from
// request validation failures so callers can map it to the right status.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("payfast configuration incomplete: %s is not set", e.Missing)
}

// MerchantConfig is the merchant identity plus callback URLs read from env.
type MerchantConfig struct {
	MerchantID  string
	MerchantKey string
	Passphrase  string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
	Sandbox     bool
}

// LoadMerchantConfig reads the merchant configuration from the environment.
// Missing required entries yield a ConfigError naming the variable (but never
// its value).
func LoadMerchantConfig() (*MerchantConfig, error) {
	cfg := &MerchantConfig{
		MerchantID:  strings.TrimSpace(env.GetEnv("PAYFAST_MERCHANT_ID", "")),
		MerchantKey: strings.TrimSpace(env.GetEnv("PAYFAST_MERCHANT_KEY", "")),
		Passphrase:  env.GetEnv("PAYFAST_PASSPHRASE", ""),
		ReturnURL:   strings.TrimSpace(env.GetEnv("PAYFAST_RETURN_URL", "")),
		CancelURL:   strings.TrimSpace(env.GetEnv("PAYFAST_CANCEL_URL", "")),
		NotifyURL:   strings.TrimSpace(env.GetEnv("PAYFAST_NOTIFY_URL", "")),
		Sandbox:     env.IsSandbox(),
	}

	required := []struct {
		name  string
		value string
	}{
		{"PAYFAST_MERCHANT_ID", cfg.MerchantID},
		{"PAYFAST_MERCHANT_KEY", cfg.MerchantKey},
		{"PAYFAST_RETURN_URL", cfg.ReturnURL},
		{"PAYFAST_CANCEL_URL", cfg.CancelURL},
		{"PAYFAST_NOTIFY_URL", cfg.NotifyURL},
	}
	for _, r := range required {
		if r.value == "" {
			return nil, &ConfigError{Missing: r.name}
		}
	}

	return cfg, nil
}

// ProcessURL returns the hosted checkout endpoint for the configured mode.
func (c *MerchantConfig) ProcessURL() string {
	if c.Sandbox {
		return sandboxProcessURL
	}
	return liveProcessURL
}

// Initiation is a signed checkout request ready to be submitted to the
// provider's hosted page.
type Initiation struct {
	RedirectURL string `json:"redirect_url"`
	Fields      Fields `json:"-"`
}

// FieldMap renders the signed field set as a plain map for JSON responses.
func (i *Initiation) FieldMap() map[string]string {
	out := make(map[string]string, len(i.Fields))
	for _, f := range i.Fields {
		if f.Value != "" {
			out[f.Key] = f.Value
		}
	}
	return out
}

// FrequencyCode maps a billing interval to the provider's frequency code.
func FrequencyCode(billing string) (int, error) {
	switch strings.ToLower(strings.TrimSpace(billing)) {
	case models.BILLING_MONTHLY:
		return FrequencyMonthly, nil
	case models.BILLING_ANNUAL:
		return FrequencyAnnual, nil
	default:
		return 0, fmt.Errorf("unsupported billing interval: %s", billing)
	}
}

// BuildInitiation assembles and signs the recurring checkout field set for a
// signup. Calling it twice for the same signup produces two independent valid
// requests; deduplication happens at notification time.
func BuildInitiation(signup *models.Signup, cfg *MerchantConfig) (*Initiation, error) {
	frequency, err := FrequencyCode(signup.BillingInterval)
	if err != nil {
		return nil, err
	}

	amount := signup.Price.StringFixed(2)
	itemName := SanitizeText(fmt.Sprintf("%s subscription (%s)", models.PlanDisplayName(signup.Plan), signup.BillingInterval))

	first, last := splitName(SanitizeText(signup.Name))

	fields := Fields{
		{Key: "merchant_id", Value: cfg.MerchantID},
		{Key: "merchant_key", Value: cfg.MerchantKey},
		{Key: "return_url", Value: cfg.ReturnURL},
		{Key: "cancel_url", Value: cfg.CancelURL},
		{Key: "notify_url", Value: cfg.NotifyURL},
		{Key: "name_first", Value: first},
		{Key: "name_last", Value: last},
		{Key: "email_address", Value: strings.TrimSpace(signup.Email)},
		{Key: "m_payment_id", Value: signup.ID},
		{Key: "amount", Value: amount},
		{Key: "item_name", Value: itemName},
		{Key: "subscription_type", Value: fmt.Sprintf("%d", SubscriptionTypeRecurring)},
		{Key: "recurring_amount", Value: amount},
		{Key: "frequency", Value: fmt.Sprintf("%d", frequency)},
		{Key: "cycles", Value: fmt.Sprintf("%d", CyclesIndefinite)},
	}

	fields = fields.Set("signature", Sign(fields, cfg.Passphrase))

	return &Initiation{
		RedirectURL: cfg.ProcessURL(),
		Fields:      fields,
	}, nil
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

package payfast

import (
	"errors"
	"testing"

	"github.com/ManuelReschke/PayFox/app/models"
	"github.com/shopspring/decimal"
)

func testMerchantConfig() *MerchantConfig {
	return &MerchantConfig{
		MerchantID:  "10000100",
		MerchantKey: "46f0cd694581a",
		Passphrase:  "jt7NOE43FZPn",
		ReturnURL:   "https://example.com/return",
		CancelURL:   "https://example.com/cancel",
		NotifyURL:   "https://example.com/api/v1/payfast/notify",
		Sandbox:     true,
	}
}

func testSignup() *models.Signup {
	return &models.Signup{
		ID:              "abc123",
		Plan:            models.PLAN_BASIC,
		BillingInterval: models.BILLING_MONTHLY,
		Price:           decimal.NewFromInt(99),
		Name:            "Jane Doe",
		Email:           "jane@example.com",
		Status:          models.STATUS_PENDING_PAYMENT,
	}
}

func TestFrequencyCode(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "monthly", want: FrequencyMonthly},
		{in: "annual", want: FrequencyAnnual},
		{in: " Monthly ", want: FrequencyMonthly},
		{in: "weekly", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := FrequencyCode(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("FrequencyCode(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("FrequencyCode(%q): unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("FrequencyCode(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBuildInitiation(t *testing.T) {
	cfg := testMerchantConfig()
	initiation, err := BuildInitiation(testSignup(), cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if initiation.RedirectURL != "https://sandbox.payfast.co.za/eng/process" {
		t.Fatalf("unexpected sandbox redirect: %q", initiation.RedirectURL)
	}

	fields := initiation.Fields
	checks := map[string]string{
		"merchant_id":       "10000100",
		"merchant_key":      "46f0cd694581a",
		"amount":            "99.00",
		"recurring_amount":  "99.00",
		"subscription_type": "1",
		"frequency":         "3",
		"cycles":            "0",
		"m_payment_id":      "abc123",
		"name_first":        "Jane",
		"name_last":         "Doe",
	}
	for key, want := range checks {
		if got := fields.Get(key); got != want {
			t.Fatalf("field %s = %q, want %q", key, got, want)
		}
	}

	sig := fields.Get("signature")
	if sig == "" {
		t.Fatalf("missing signature field")
	}
	if !VerifySignature(fields.Without("signature"), cfg.Passphrase, sig) {
		t.Fatalf("initiation signature does not verify against the same secret")
	}
}

func TestBuildInitiationAnnualLiveMode(t *testing.T) {
	cfg := testMerchantConfig()
	cfg.Sandbox = false

	signup := testSignup()
	signup.BillingInterval = models.BILLING_ANNUAL
	signup.Price = decimal.NewFromInt(990)

	initiation, err := BuildInitiation(signup, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if initiation.RedirectURL != "https://www.payfast.co.za/eng/process" {
		t.Fatalf("unexpected live redirect: %q", initiation.RedirectURL)
	}
	if got := initiation.Fields.Get("frequency"); got != "6" {
		t.Fatalf("annual frequency = %q, want 6", got)
	}
	if got := initiation.Fields.Get("amount"); got != "990.00" {
		t.Fatalf("amount = %q, want 990.00", got)
	}
}

func TestBuildInitiationSanitizesItemAndName(t *testing.T) {
	signup := testSignup()
	signup.Name = "  Zoë   van der “Merwe”  "

	initiation, err := BuildInitiation(signup, testMerchantConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := initiation.Fields.Get("name_first"); got != "Zo" {
		t.Fatalf("name_first = %q, want sanitized ASCII", got)
	}
	if got := initiation.Fields.Get("name_last"); got != `van der "Merwe"` {
		t.Fatalf("name_last = %q", got)
	}
}

func TestBuildInitiationIsRepeatable(t *testing.T) {
	cfg := testMerchantConfig()
	signup := testSignup()

	first, err := BuildInitiation(signup, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildInitiation(signup, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Fields.Get("signature") != second.Fields.Get("signature") {
		t.Fatalf("expected two builds of the same signup to sign identically")
	}
}

func TestBuildInitiationRejectsUnknownInterval(t *testing.T) {
	signup := testSignup()
	signup.BillingInterval = "weekly"

	if _, err := BuildInitiation(signup, testMerchantConfig()); err == nil {
		t.Fatalf("expected an error for an unsupported billing interval")
	}
}

func TestLoadMerchantConfigMissingRequired(t *testing.T) {
	t.Setenv("PAYFAST_MERCHANT_ID", "")
	t.Setenv("PAYFAST_MERCHANT_KEY", "46f0cd694581a")
	t.Setenv("PAYFAST_RETURN_URL", "https://example.com/return")
	t.Setenv("PAYFAST_CANCEL_URL", "https://example.com/cancel")
	t.Setenv("PAYFAST_NOTIFY_URL", "https://example.com/notify")

	_, err := LoadMerchantConfig()
	if err == nil {
		t.Fatalf("expected a config error for the missing merchant id")
	}
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %T: %v", err, err)
	}
	if cfgErr.Missing != "PAYFAST_MERCHANT_ID" {
		t.Fatalf("ConfigError.Missing = %q", cfgErr.Missing)
	}
}

func TestLoadMerchantConfigComplete(t *testing.T) {
	t.Setenv("PAYFAST_MERCHANT_ID", "10000100")
	t.Setenv("PAYFAST_MERCHANT_KEY", "46f0cd694581a")
	t.Setenv("PAYFAST_PASSPHRASE", "jt7NOE43FZPn")
	t.Setenv("PAYFAST_RETURN_URL", "https://example.com/return")
	t.Setenv("PAYFAST_CANCEL_URL", "https://example.com/cancel")
	t.Setenv("PAYFAST_NOTIFY_URL", "https://example.com/notify")
	t.Setenv("PAYFAST_SANDBOX", "true")

	cfg, err := LoadMerchantConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.MerchantID != "10000100" || !cfg.Sandbox {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

package payfast

import (
	"net/url"
	"testing"
)

func TestParseNotificationBodyForm(t *testing.T) {
	raw := []byte("m_payment_id=abc123&pf_payment_id=1089250&payment_status=COMPLETE&token=a1b2c3")

	fields := ParseNotificationBody(raw)
	if got := fields.Get("m_payment_id"); got != "abc123" {
		t.Fatalf("m_payment_id = %q", got)
	}
	if got := fields.Get("payment_status"); got != "COMPLETE" {
		t.Fatalf("payment_status = %q", got)
	}
	if got := fields.Get("token"); got != "a1b2c3" {
		t.Fatalf("token = %q", got)
	}
}

func TestParseNotificationBodyJSON(t *testing.T) {
	raw := []byte(`{"m_payment_id":"abc123","payment_status":"COMPLETE","amount_gross":99.00,"custom_flag":true,"empty":null}`)

	fields := ParseNotificationBody(raw)
	if got := fields.Get("m_payment_id"); got != "abc123" {
		t.Fatalf("m_payment_id = %q", got)
	}
	if got := fields.Get("amount_gross"); got != "99.00" {
		t.Fatalf("numeric values should keep their wire form, got %q", got)
	}
	if got := fields.Get("custom_flag"); got != "true" {
		t.Fatalf("custom_flag = %q", got)
	}
	if got := fields.Get("empty"); got != "" {
		t.Fatalf("null values must be absent, got %q", got)
	}
}

func TestParseNotificationBodyMalformed(t *testing.T) {
	for _, raw := range []string{"", "   ", "{not json", "%zz=bad"} {
		fields := ParseNotificationBody([]byte(raw))
		if len(fields) != 0 {
			t.Fatalf("malformed body %q should decode to an empty field set, got %+v", raw, fields)
		}
	}
}

func TestExtractNotificationNormalizes(t *testing.T) {
	fields := Fields{
		{Key: "m_payment_id", Value: "  ABC123 "},
		{Key: "pf_payment_id", Value: " 1089250 "},
		{Key: "payment_status", Value: " COMPLETE "},
		{Key: "token", Value: " tok-1 "},
	}

	n := ExtractNotification(fields)
	if n.MPaymentID != "abc123" {
		t.Fatalf("MPaymentID = %q", n.MPaymentID)
	}
	if n.PfPaymentID != "1089250" {
		t.Fatalf("PfPaymentID = %q", n.PfPaymentID)
	}
	if n.PaymentStatus != "complete" || !n.IsComplete() {
		t.Fatalf("PaymentStatus = %q, IsComplete = %v", n.PaymentStatus, n.IsComplete())
	}
	if n.Token != "tok-1" {
		t.Fatalf("Token = %q", n.Token)
	}
}

func TestExtractNotificationIncomplete(t *testing.T) {
	n := ExtractNotification(Fields{{Key: "payment_status", Value: "CANCELLED"}})
	if n.IsComplete() {
		t.Fatalf("CANCELLED must not count as complete")
	}
}

func TestVerifyNotificationRoundTrip(t *testing.T) {
	passphrase := "jt7NOE43FZPn"
	base := Fields{
		{Key: "m_payment_id", Value: "abc123"},
		{Key: "pf_payment_id", Value: "1089250"},
		{Key: "payment_status", Value: "COMPLETE"},
		{Key: "amount_gross", Value: "99.00"},
	}
	sig := Sign(base, passphrase)

	body := url.Values{}
	for _, f := range base {
		body.Set(f.Key, f.Value)
	}
	body.Set("signature", sig)

	fields := ParseNotificationBody([]byte(body.Encode()))
	if !VerifyNotification(fields, passphrase) {
		t.Fatalf("expected a self-signed notification to verify")
	}
	if VerifyNotification(fields, "wrong") {
		t.Fatalf("expected verification to fail under the wrong passphrase")
	}

	fields = fields.Set("payment_status", "CANCELLED")
	if VerifyNotification(fields, passphrase) {
		t.Fatalf("expected a tampered notification to fail verification")
	}
}

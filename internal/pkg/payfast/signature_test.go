package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"testing"
)

func TestSignIsDeterministic(t *testing.T) {
	fields := Fields{
		{Key: "merchant_id", Value: "10000100"},
		{Key: "amount", Value: "99.00"},
		{Key: "item_name", Value: "Basic subscription"},
	}

	first := Sign(fields, "secret")
	second := Sign(fields, "secret")
	if first != second {
		t.Fatalf("expected identical digests, got %q and %q", first, second)
	}
	if first != strings.ToLower(first) {
		t.Fatalf("expected lowercase hex digest, got %q", first)
	}
	if len(first) != 32 {
		t.Fatalf("expected 128-bit hex digest, got %d chars", len(first))
	}
}

func TestSignIsOrderInvariant(t *testing.T) {
	a := Fields{
		{Key: "merchant_id", Value: "10000100"},
		{Key: "amount", Value: "99.00"},
		{Key: "m_payment_id", Value: "abc123"},
	}
	b := Fields{
		{Key: "m_payment_id", Value: "abc123"},
		{Key: "merchant_id", Value: "10000100"},
		{Key: "amount", Value: "99.00"},
	}

	if Sign(a, "s") != Sign(b, "s") {
		t.Fatalf("expected permuted field sets to produce the same digest")
	}
}

func TestBaseStringExcludesEmptyValues(t *testing.T) {
	fields := Fields{
		{Key: "a", Value: "1"},
		{Key: "b", Value: ""},
		{Key: "c", Value: "3"},
	}

	base := BaseString(fields, "")
	if base != "a=1&c=3" {
		t.Fatalf("unexpected base string: %q", base)
	}
	if strings.Contains(base, "b=") {
		t.Fatalf("empty field leaked into base string: %q", base)
	}
}

func TestBaseStringEncodesSpaceAsPlus(t *testing.T) {
	fields := Fields{{Key: "item_name", Value: "hello world"}}

	base := BaseString(fields, "")
	if base != "item_name=hello+world" {
		t.Fatalf("expected legacy form encoding, got %q", base)
	}
	if strings.Contains(base, "%20") {
		t.Fatalf("space must not encode as %%20: %q", base)
	}
}

func TestBaseStringAppendsPassphraseOnlyWhenSet(t *testing.T) {
	fields := Fields{{Key: "amount", Value: "99.00"}}

	if got := BaseString(fields, ""); got != "amount=99.00" {
		t.Fatalf("empty passphrase must not be appended: %q", got)
	}
	if got := BaseString(fields, "pass phrase"); got != "amount=99.00&passphrase=pass+phrase" {
		t.Fatalf("unexpected base string with passphrase: %q", got)
	}
}

func TestSignMatchesManualDigest(t *testing.T) {
	fields := Fields{
		{Key: "merchant_id", Value: "10000100"},
		{Key: "amount", Value: "99.00"},
	}

	sum := md5.Sum([]byte("amount=99.00&merchant_id=10000100&passphrase=jt7NOE43FZPn"))
	want := hex.EncodeToString(sum[:])

	if got := Sign(fields, "jt7NOE43FZPn"); got != want {
		t.Fatalf("Sign() = %q, want %q", got, want)
	}
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	fields := Fields{
		{Key: "m_payment_id", Value: "abc123"},
		{Key: "payment_status", Value: "COMPLETE"},
	}

	sig := Sign(fields, "S")
	if !VerifySignature(fields, "S", sig) {
		t.Fatalf("expected signature to verify with the signing secret")
	}
	if !VerifySignature(fields, "S", strings.ToUpper(sig)) {
		t.Fatalf("expected case-insensitive comparison to verify")
	}
	if VerifySignature(fields, "S2", sig) {
		t.Fatalf("expected verification to fail under a different secret")
	}
	if VerifySignature(fields, "S", "") {
		t.Fatalf("expected empty posted signature to fail")
	}
}

func TestFieldsSetGetWithout(t *testing.T) {
	fields := Fields{{Key: "a", Value: "1"}}
	fields = fields.Set("b", "2")
	fields = fields.Set("a", "9")

	if got := fields.Get("a"); got != "9" {
		t.Fatalf("Set should replace existing keys, got a=%q", got)
	}
	if got := fields.Get("missing"); got != "" {
		t.Fatalf("missing key should yield empty value, got %q", got)
	}

	trimmed := fields.Without("a")
	if trimmed.Get("a") != "" || trimmed.Get("b") != "2" {
		t.Fatalf("Without removed the wrong field: %+v", trimmed)
	}
	if fields.Get("a") != "9" {
		t.Fatalf("Without must not mutate the receiver")
	}
}

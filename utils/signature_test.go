package utils

import (
	"strings"
	"testing"
)

func TestVerifyWebhookSignatureRoundTrip(t *testing.T) {
	secret := "whsec_test"
	ts := "1724800000"
	body := []byte(`{"event":"meeting.started","eventId":"ev1"}`)

	header := ComputeWebhookSignature(secret, ts, body)
	if !strings.HasPrefix(header, "v0=") {
		t.Fatalf("signature %q missing v0= prefix", header)
	}
	if !VerifyWebhookSignature(secret, ts, body, header) {
		t.Error("valid signature rejected")
	}
}

func TestVerifyWebhookSignatureCaseInsensitive(t *testing.T) {
	secret := "whsec_test"
	ts := "1724800000"
	body := []byte(`{"event":"meeting.ended"}`)

	header := strings.ToUpper(ComputeWebhookSignature(secret, ts, body))
	if !VerifyWebhookSignature(secret, ts, body, header) {
		t.Error("uppercase hex signature rejected")
	}
}

func TestVerifyWebhookSignatureRejections(t *testing.T) {
	secret := "whsec_test"
	ts := "1724800000"
	body := []byte(`{"event":"meeting.started"}`)
	header := ComputeWebhookSignature(secret, ts, body)

	if VerifyWebhookSignature("whsec_other", ts, body, header) {
		t.Error("signature verified with wrong secret")
	}
	if VerifyWebhookSignature(secret, "1724800001", body, header) {
		t.Error("signature verified with altered timestamp")
	}
	if VerifyWebhookSignature(secret, ts, []byte(`{"event":"tampered"}`), header) {
		t.Error("signature verified with altered body")
	}
	if VerifyWebhookSignature(secret, ts, body, "") {
		t.Error("empty signature header verified")
	}
}

func TestHashValidationTokenDeterministic(t *testing.T) {
	a := HashValidationToken("secret", "tok123")
	b := HashValidationToken("secret", "tok123")
	if a != b {
		t.Error("token hash not deterministic")
	}
	if a == HashValidationToken("other", "tok123") {
		t.Error("token hash ignores secret")
	}
	if a == HashValidationToken("secret", "tok124") {
		t.Error("token hash ignores token")
	}
}

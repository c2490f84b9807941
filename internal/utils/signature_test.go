package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"disbursement_id":"dsb_123","status":"completed"}`)
	sig := GenerateSignature(payload, "secret")

	assert.True(t, VerifySignature(payload, sig, "secret"))
	assert.False(t, VerifySignature(payload, sig, "other-secret"))
	assert.False(t, VerifySignature([]byte(`tampered`), sig, "secret"))
	assert.False(t, VerifySignature(payload, "", "secret"))
}

func TestSignatureDeterministic(t *testing.T) {
	payload := []byte("payload")
	assert.Equal(t, GenerateSignature(payload, "s"), GenerateSignature(payload, "s"))
	assert.NotEqual(t, GenerateSignature(payload, "s"), GenerateSignature(payload, "t"))
}

package hookmail

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "whsec_abc123"

func TestSign(t *testing.T) {
	sig := Sign(testSecret, []byte(`{"event":"message.forwarded"}`))

	assert.True(t, strings.HasPrefix(sig, "sha256="))
	assert.Len(t, strings.TrimPrefix(sig, "sha256="), 64, "hex-encoded SHA-256")

	// Deterministic for the same input.
	assert.Equal(t, sig, Sign(testSecret, []byte(`{"event":"message.forwarded"}`)))
	// Different secret, different signature.
	assert.NotEqual(t, sig, Sign("other", []byte(`{"event":"message.forwarded"}`)))
}

func TestVerifySignature(t *testing.T) {
	body := []byte(`{"event":"message.forwarded","address_id":"abc"}`)
	sig := Sign(testSecret, body)

	assert.True(t, VerifySignature(testSecret, body, sig))
	assert.True(t, VerifySignature(testSecret, body, strings.ToUpper(strings.TrimPrefix(sig, "sha256="))),
		"hex case is not significant")

	assert.False(t, VerifySignature(testSecret, body, "sha256=deadbeef"))
	assert.False(t, VerifySignature(testSecret, []byte(`tampered`), sig))
	assert.False(t, VerifySignature("wrong-secret", body, sig))
	assert.False(t, VerifySignature(testSecret, body, ""))
}

func TestVerifyRequest(t *testing.T) {
	body := []byte(`{"event":"message.forwarded"}`)

	makeHeader := func(sig, ts string) http.Header {
		h := http.Header{}
		if sig != "" {
			h.Set(SignatureHeader, sig)
		}
		if ts != "" {
			h.Set(TimestampHeader, ts)
		}
		return h
	}

	now := fmt.Sprintf("%d", time.Now().Unix())
	stale := fmt.Sprintf("%d", time.Now().Add(-time.Hour).Unix())
	future := fmt.Sprintf("%d", time.Now().Add(time.Hour).Unix())

	t.Run("valid without timestamp", func(t *testing.T) {
		h := makeHeader(Sign(testSecret, body), "")
		assert.NoError(t, VerifyRequest(testSecret, body, h, 0))
	})

	t.Run("valid with fresh timestamp", func(t *testing.T) {
		h := makeHeader(Sign(testSecret, body), now)
		assert.NoError(t, VerifyRequest(testSecret, body, h, 0))
	})

	t.Run("missing signature header", func(t *testing.T) {
		err := VerifyRequest(testSecret, body, makeHeader("", now), 0)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("wrong signature", func(t *testing.T) {
		err := VerifyRequest(testSecret, body, makeHeader("sha256=deadbeef", now), 0)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("stale timestamp rejected", func(t *testing.T) {
		h := makeHeader(Sign(testSecret, body), stale)
		err := VerifyRequest(testSecret, body, h, 0)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("future timestamp rejected", func(t *testing.T) {
		h := makeHeader(Sign(testSecret, body), future)
		err := VerifyRequest(testSecret, body, h, 0)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("unparseable timestamp rejected", func(t *testing.T) {
		h := makeHeader(Sign(testSecret, body), "yesterday")
		err := VerifyRequest(testSecret, body, h, 0)
		assert.ErrorIs(t, err, ErrSignatureInvalid)
	})

	t.Run("wide tolerance admits old deliveries", func(t *testing.T) {
		h := makeHeader(Sign(testSecret, body), stale)
		assert.NoError(t, VerifyRequest(testSecret, body, h, 2*time.Hour))
	})
}

func TestParseEvent(t *testing.T) {
	body := []byte(`{
		"event":"message.forwarded",
		"address_id":"7f9c24e8-3b2a-4f68-9d1c-8a5b3e2f1a09",
		"message":{
			"from":"alice@example.com",
			"to":"inbound@hookmail.io",
			"subject":"build failed",
			"received_at":"2026-08-24T10:00:00Z",
			"text_body":"the build is red",
			"headers":{"Message-Id":"<abc@example.com>"}
		}
	}`)

	ev, err := ParseEvent(body)
	require.NoError(t, err)
	assert.Equal(t, "message.forwarded", ev.Event)
	assert.Equal(t, "7f9c24e8-3b2a-4f68-9d1c-8a5b3e2f1a09", ev.AddressID)
	require.NotNil(t, ev.Message)
	assert.Equal(t, "alice@example.com", ev.Message.From)
	assert.Equal(t, "build failed", ev.Message.Subject)
	assert.Equal(t, "<abc@example.com>", ev.Message.Headers["Message-Id"])
}

func TestParseEvent_NoMessage(t *testing.T) {
	ev, err := ParseEvent([]byte(`{"event":"address.disabled","address_id":"abc"}`))
	require.NoError(t, err)
	assert.Equal(t, "address.disabled", ev.Event)
	assert.Nil(t, ev.Message)
}

func TestParseEvent_RejectsBadPayloads(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"empty", nil},
		{"truncated", []byte(`{"event":`)},
		{"trailing garbage", []byte(`{"event":"x"}garbage`)},
		{"depth bomb", []byte(strings.Repeat(`{"a":`, 150) + "1" + strings.Repeat("}", 150))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEvent(tt.body)
			assert.ErrorIs(t, err, ErrMalformedResponse)
		})
	}
}

func TestSignVerify_Roundtrip(t *testing.T) {
	bodies := [][]byte{
		[]byte(``),
		[]byte(`{}`),
		[]byte(`{"event":"message.forwarded","message":{"subject":"héllo ✉"}}`),
	}
	for _, body := range bodies {
		sig := Sign(testSecret, body)
		assert.True(t, VerifySignature(testSecret, body, sig), "body %q", body)
	}
}

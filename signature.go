package hookmail

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hookmail/client-go/internal/validate"
)

// Headers attached to every webhook delivery.
const (
	// SignatureHeader carries the hex HMAC-SHA256 of the raw request body,
	// keyed with the address secret, prefixed with "sha256=".
	SignatureHeader = "X-Hookmail-Signature"
	// TimestampHeader carries the delivery time as Unix seconds.
	TimestampHeader = "X-Hookmail-Timestamp"
)

// DefaultTimestampTolerance is the default replay window for VerifyRequest.
const DefaultTimestampTolerance = 5 * time.Minute

// Event is a decoded webhook delivery payload.
type Event struct {
	// Event is the event type, e.g. "message.forwarded".
	Event string `json:"event"`
	// AddressID identifies the forwarding address.
	AddressID string `json:"address_id"`
	// Message is the forwarded email, present on message events.
	Message *Message `json:"message,omitempty"`
}

// Message is a forwarded email as delivered to a webhook.
type Message struct {
	From       string            `json:"from"`
	To         string            `json:"to"`
	Subject    string            `json:"subject"`
	ReceivedAt time.Time         `json:"received_at"`
	TextBody   string            `json:"text_body,omitempty"`
	HTMLBody   string            `json:"html_body,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
}

// Sign computes the delivery signature for body with the given secret.
// Exposed so receivers can build test fixtures.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature matches body under secret.
// Comparison is constant-time.
func VerifySignature(secret string, body []byte, signature string) bool {
	provided := strings.ToLower(strings.TrimPrefix(signature, "sha256="))
	expected := strings.TrimPrefix(Sign(secret, body), "sha256=")
	return hmac.Equal([]byte(expected), []byte(provided))
}

// VerifyRequest verifies a webhook delivery: the signature over the raw
// body and, when a timestamp header is present, that the delivery is within
// tolerance of now (replay defense). A zero tolerance uses
// DefaultTimestampTolerance.
func VerifyRequest(secret string, body []byte, header http.Header, tolerance time.Duration) error {
	sig := header.Get(SignatureHeader)
	if sig == "" {
		return fmt.Errorf("%w: missing %s header", ErrSignatureInvalid, SignatureHeader)
	}
	if !VerifySignature(secret, body, sig) {
		return ErrSignatureInvalid
	}

	if ts := header.Get(TimestampHeader); ts != "" {
		if tolerance <= 0 {
			tolerance = DefaultTimestampTolerance
		}
		unix, err := strconv.ParseInt(strings.TrimSpace(ts), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: unparseable %s header", ErrSignatureInvalid, TimestampHeader)
		}
		age := time.Since(time.Unix(unix, 0))
		if age > tolerance || age < -tolerance {
			return fmt.Errorf("%w: delivery timestamp outside tolerance %v", ErrSignatureInvalid, tolerance)
		}
	}

	return nil
}

// ParseEvent decodes a webhook delivery payload. The payload is validated
// for size and nesting depth before decoding.
func ParseEvent(body []byte) (*Event, error) {
	if r := validate.JSONPayload(body, 0); !r.Valid {
		return nil, &MalformedResponseError{Reason: "webhook payload validation failed", Errors: r.Errors}
	}
	var ev Event
	if err := json.Unmarshal(body, &ev); err != nil {
		return nil, &MalformedResponseError{Reason: fmt.Sprintf("decode webhook payload: %v", err)}
	}
	return &ev, nil
}

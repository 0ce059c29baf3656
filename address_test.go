package hookmail

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddressID = "7f9c24e8-3b2a-4f68-9d1c-8a5b3e2f1a09"

func TestCreateAddress(t *testing.T) {
	var gotBody string
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/addresses", r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"data":{
			"id":%q,
			"email":"inbound@hookmail.io",
			"webhook_url":"https://example.com/hooks/mail",
			"description":"ci alerts",
			"enabled":true,
			"secret":"whsec_abc123",
			"created_at":"2026-08-24T10:00:00Z",
			"updated_at":"2026-08-24T10:00:00Z"
		}}`, testAddressID)
	}))

	addr, err := c.CreateAddress(context.Background(), CreateAddressParams{
		WebhookURL:  "https://example.com/hooks/mail",
		Description: "ci alerts",
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{"webhook_url":"https://example.com/hooks/mail","description":"ci alerts"}`, gotBody)
	assert.Equal(t, testAddressID, addr.ID)
	assert.Equal(t, "inbound@hookmail.io", addr.Email)
	assert.Equal(t, "https://example.com/hooks/mail", addr.WebhookURL)
	assert.True(t, addr.Enabled)
	assert.Equal(t, "whsec_abc123", addr.Secret, "secret is returned on creation")
	assert.Equal(t, time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC), addr.CreatedAt)
}

func TestCreateAddress_RejectsBadWebhookURL(t *testing.T) {
	var calls atomic.Int32
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"plain http", "http://example.com/hooks"},
		{"loopback", "https://127.0.0.1/hooks"},
		{"private range", "https://10.0.0.5/hooks"},
		{"metadata endpoint", "https://169.254.169.254/latest"},
		{"localhost", "https://localhost/hooks"},
		{"shortener", "https://bit.ly/abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.CreateAddress(context.Background(), CreateAddressParams{WebhookURL: tt.url})
			assert.ErrorIs(t, err, ErrInvalidInput)

			var valErr *ValidationError
			assert.ErrorAs(t, err, &valErr)
		})
	}
	assert.Equal(t, int32(0), calls.Load(), "rejected input never reaches the network")
}

func TestListAddresses(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/addresses", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[
			{"id":"7f9c24e8-3b2a-4f68-9d1c-8a5b3e2f1a09","email":"a@hookmail.io","webhook_url":"https://example.com/a","enabled":true},
			{"id":"1c56a2d0-9e41-4b7f-8a30-5f6e7d8c9b0a","email":"b@hookmail.io","webhook_url":"https://example.com/b","enabled":false}
		]}`)
	}))

	addrs, err := c.ListAddresses(context.Background())
	require.NoError(t, err)
	require.Len(t, addrs, 2)
	assert.Equal(t, "a@hookmail.io", addrs[0].Email)
	assert.False(t, addrs[1].Enabled)
	assert.Empty(t, addrs[0].Secret, "list never includes secrets")
}

func TestListAddresses_Empty(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[]}`)
	}))

	addrs, err := c.ListAddresses(context.Background())
	require.NoError(t, err)
	assert.Empty(t, addrs)
}

func TestGetAddress(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/addresses/"+testAddressID, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"id":%q,"email":"a@hookmail.io","webhook_url":"https://example.com/a","enabled":true}}`, testAddressID)
	}))

	addr, err := c.GetAddress(context.Background(), testAddressID)
	require.NoError(t, err)
	assert.Equal(t, testAddressID, addr.ID)
}

func TestGetAddress_InvalidID(t *testing.T) {
	var calls atomic.Int32
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	tests := []string{
		"",
		"not-a-uuid",
		"../../../etc/passwd",
		"{7f9c24e8-3b2a-4f68-9d1c-8a5b3e2f1a09}",
		"7f9c24e83b2a4f689d1c8a5b3e2f1a09",
	}

	for _, id := range tests {
		_, err := c.GetAddress(context.Background(), id)
		assert.ErrorIs(t, err, ErrInvalidInput, "id %q", id)
	}
	assert.Equal(t, int32(0), calls.Load())
}

func TestGetAddress_NotFound(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"address not found"}`)
	}))

	_, err := c.GetAddress(context.Background(), testAddressID)
	assert.ErrorIs(t, err, ErrAddressNotFound)
}

func TestUpdateAddress(t *testing.T) {
	var gotMethod, gotBody string
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"data":{"id":%q,"email":"a@hookmail.io","webhook_url":"https://example.com/a","enabled":false}}`, testAddressID)
	}))

	enabled := false
	addr, err := c.UpdateAddress(context.Background(), testAddressID, UpdateAddressParams{
		Enabled: &enabled,
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.JSONEq(t, `{"enabled":false}`, gotBody, "unset fields are omitted")
	assert.False(t, addr.Enabled)
}

func TestUpdateAddress_RejectsBadWebhookURL(t *testing.T) {
	var calls atomic.Int32
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	bad := "https://192.168.1.1/hooks"
	_, err := c.UpdateAddress(context.Background(), testAddressID, UpdateAddressParams{
		WebhookURL: &bad,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, int32(0), calls.Load())
}

func TestDeleteAddress(t *testing.T) {
	var gotMethod, gotPath string
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))

	require.NoError(t, c.DeleteAddress(context.Background(), testAddressID))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/v1/addresses/"+testAddressID, gotPath)
}

func TestTestAddress(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/addresses/"+testAddressID+"/test", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"success":true,"status_code":200,"duration_ms":132}}`)
	}))

	result, err := c.TestAddress(context.Background(), testAddressID)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 200, result.StatusCode)
	assert.Equal(t, 132*time.Millisecond, result.Duration)
	assert.Empty(t, result.Error)
}

func TestTestAddress_DeliveryFailure(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"success":false,"status_code":503,"duration_ms":40,"error":"endpoint returned 503"}}`)
	}))

	result, err := c.TestAddress(context.Background(), testAddressID)
	require.NoError(t, err, "a failed delivery is a result, not a client error")
	assert.False(t, result.Success)
	assert.Equal(t, "endpoint returned 503", result.Error)
}

func TestRotateAddressSecret(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/addresses/"+testAddressID+"/rotate-secret", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":{"secret":"whsec_rotated456"}}`)
	}))

	secret, err := c.RotateAddressSecret(context.Background(), testAddressID)
	require.NoError(t, err)
	assert.Equal(t, "whsec_rotated456", secret)
}

func TestRotateAddressSecret_InvalidID(t *testing.T) {
	c, _ := newServerClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("unexpected network call")
	}))

	_, err := c.RotateAddressSecret(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSender_Send(t *testing.T) {
	var got outboundPayload
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	sender := NewHTTPSender(gateway.URL)
	err := sender.Send(context.Background(), "5511999990000", "testado")

	require.NoError(t, err)
	assert.Equal(t, "5511999990000", got.To)
	assert.Equal(t, "testado", got.Body)
}

func TestHTTPSender_SendGatewayError(t *testing.T) {
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer gateway.Close()

	sender := NewHTTPSender(gateway.URL)
	err := sender.Send(context.Background(), "5511999990000", "testado")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestHTTPSender_SendUnreachableGateway(t *testing.T) {
	sender := NewHTTPSender("http://127.0.0.1:1/send")
	err := sender.Send(context.Background(), "5511999990000", "testado")
	assert.Error(t, err)
}

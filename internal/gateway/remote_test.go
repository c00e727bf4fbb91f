package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoteInvokeEncodesCall(t *testing.T) {
	var gotAction, gotArgs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.URL.Query().Get("action")
		gotArgs = r.URL.Query().Get("args")
		assert.NotEmpty(t, r.URL.Query().Get("t"))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []string{"ok"}})
	}))
	defer srv.Close()

	var out []string
	err := Call(context.Background(), NewRemote(srv.URL), OpGetAllProjects, &out, "C-01", 5)
	require.NoError(t, err)

	assert.Equal(t, "getAllProjects", gotAction)
	assert.JSONEq(t, `["C-01",5]`, gotArgs)
	assert.Equal(t, []string{"ok"}, out)
}

func TestRemoteInvokeEnvelopeFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "WBS already exists"})
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL).Invoke(context.Background(), OpSaveProject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WBS already exists")
}

func TestRemoteInvokeNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewRemote(srv.URL).Invoke(context.Background(), OpGetDashboardData)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

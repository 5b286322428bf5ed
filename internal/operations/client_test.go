package operations

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRestyClient_Post_SendsJSONBody(t *testing.T) {
	var gotPath string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewRestyClient(Config{BaseURL: srv.URL})

	body := []map[string]string{{"type": "queueTrigger", "name": "q"}}
	err := client.Post(context.Background(), "/operations/settriggers", body)
	require.NoError(t, err)

	require.Equal(t, "/operations/settriggers", gotPath)

	var decoded []map[string]string
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	require.Equal(t, body, decoded)
}

func TestRestyClient_Post_NonSuccessStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewRestyClient(Config{BaseURL: srv.URL})
	err := client.Post(context.Background(), "/operations/settriggers", []int{})
	require.Error(t, err)
}

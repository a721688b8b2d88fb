package cli

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayLoadFailureReportsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	out, err := runCommand(t, "play",
		"--level", "1", "--week", "3", "--sets", "11",
		"--base-url", srv.URL, "--no-history")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "Error [E_LOAD]")
}

func TestPlayNoQuestionsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"question_set":{"id":11,"name":"Addition","question_type":{"name":"Addition"}},"questions":[]}}`))
	}))
	defer srv.Close()

	out, err := runCommand(t, "play",
		"--level", "1", "--week", "3", "--sets", "11",
		"--base-url", srv.URL, "--no-history", "--mute")
	require.NoError(t, err)
	assert.Contains(t, out, "No questions available")
}

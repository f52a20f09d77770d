package common

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestJSONDataEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONData(rec, http.StatusCreated, map[string]string{"id": "b1"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "b1", body.Data["id"])
}

func TestJSONErrorEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, http.StatusBadRequest, "VALIDATION", "bad input", []string{"first", "second"})

	var body struct {
		Error ErrorBody `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "VALIDATION", body.Error.Code)
	require.Equal(t, "bad input", body.Error.Message)
	require.Len(t, body.Error.Details, 2)
}

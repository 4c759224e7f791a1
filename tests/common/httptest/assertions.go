//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// AssertSuccessResponse checks the status code and decodes the envelope's
// result into targetStruct.
func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String())) {
		return
	}

	if expectedStatus < 200 || expectedStatus >= 300 || targetStruct == nil {
		return
	}

	var env envelope
	if !assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), fmt.Sprintf("Failed to decode response JSON: %s", w.Body.String())) {
		return
	}
	assert.Equal(t, "success", env.Status)
	err := json.Unmarshal(env.Result, targetStruct)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode result JSON: %s", string(env.Result)))
}

func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code,
		fmt.Sprintf("Expected status %d, got %d. Response: %s", expectedStatus, w.Code, w.Body.String()))

	var env envelope
	err := json.Unmarshal(w.Body.Bytes(), &env)
	assert.NoError(t, err, fmt.Sprintf("Failed to decode error response JSON: %s", w.Body.String()))
	assert.Equal(t, "error", env.Status)

	if expectedErrorMsg != "" {
		assert.Contains(t, env.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
}

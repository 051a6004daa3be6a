package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bottling/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeItemNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeBatchExists, http.StatusConflict},
		{ErrCodeDuplicateRequest, http.StatusConflict},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{ErrCodeInsufficientStock, http.StatusUnprocessableEntity},
		{ErrCodeOverReceipt, http.StatusUnprocessableEntity},
		{ErrCodeNoSupplierAvailable, http.StatusUnprocessableEntity},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode_CoversDomainCodes(t *testing.T) {
	codes := []string{
		shared.CodeNotFound, shared.CodeItemNotFound, shared.CodeAlreadyExists, shared.CodeBatchExists,
		shared.CodeInvalidInput, shared.CodeInvalidState, shared.CodeConcurrencyConflict,
		shared.CodeInsufficientStock, shared.CodeOverReceipt, shared.CodeNoSupplierAvailable,
		shared.CodeDuplicateRequest,
	}
	for _, code := range codes {
		t.Run(code, func(t *testing.T) {
			normalized := NormalizeErrorCode(code)
			assert.Equal(t, "ERR_"+code, normalized)
			assert.NotEqual(t, http.StatusInternalServerError, GetHTTPStatus(normalized))
		})
	}
	assert.Equal(t, ErrCodeInternal, NormalizeErrorCode(ErrCodeInternal))
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	tests := []struct {
		total    int64
		pageSize int
		pages    int
	}{
		{0, 20, 0},
		{20, 20, 1},
		{21, 20, 2},
		{5, 0, 0},
	}
	for _, tt := range tests {
		resp := NewSuccessResponseWithMeta([]int{}, tt.total, 1, tt.pageSize)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, tt.pages, resp.Meta.TotalPages)
	}
}

func TestErrorResponseJSON(t *testing.T) {
	body, err := json.Marshal(NewValidationErrorResponse("Request validation failed", "req-1",
		[]ValidationDetail{{Field: "batch_number", Message: "This field is required"}}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, ErrCodeValidation, errInfo["code"])
	assert.Equal(t, "req-1", errInfo["request_id"])
	assert.Len(t, errInfo["details"], 1)

	page := PageRequest{}.Normalize()
	assert.Equal(t, PageRequest{Page: 1, PageSize: 20}, page)
}

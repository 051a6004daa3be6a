package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	BatchNumber string `json:"batch_number" binding:"required"`
	Cases       int    `json:"cases" binding:"gt=0"`
	Type        string `json:"type" binding:"omitempty,oneof=a b"`
}

func TestValidationDetails(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&sampleRequest{Type: "c"})
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 3)
	fields := map[string]string{}
	for _, d := range details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["batch_number"])
	assert.Equal(t, "Must be greater than 0", fields["cases"])
	assert.Equal(t, "Must be one of: a b", fields["type"])

	assert.Nil(t, ValidationDetails(errors.New("plain")))
}

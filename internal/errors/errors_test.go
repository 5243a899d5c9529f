package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"gobioact/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestAtStage_CarriesStageAndPrecondition(t *testing.T) {
	err := AtStage("descriptors", "descriptor names must be registered", core.NewUnknownDescriptorError("TPSA"))

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "descriptors", GetStage(err))
	assert.True(t, stderrors.Is(err, core.ErrUnknownDescriptor))
	assert.Contains(t, err.Error(), "[descriptors]")
	assert.Contains(t, err.Error(), `"TPSA"`)
}

func TestCodeFor(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{core.NewEmptyGroupError("inactive"), CodeInsufficientData},
		{fmt.Errorf("x: %w", core.ErrStructureParse), CodeStructureParse},
		{core.ErrMalformedPotency, CodeInvalidInput},
		{core.NewValidationError("ceiling", "must be positive"), CodeConfigInvalid},
		{stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.code, CodeFor(tt.err), tt.err.Error())
	}
}

func TestWrap_PreservesCodeAndStage(t *testing.T) {
	inner := AtStage("hypothesis_test", "both groups non-empty", core.NewEmptyGroupError("active"))
	outer := Wrap(inner, "run failed")

	assert.Equal(t, CodeInsufficientData, GetCode(outer))
	assert.Equal(t, "hypothesis_test", GetStage(outer))
	assert.True(t, core.IsInsufficientData(outer))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCode_NonAppError(t *testing.T) {
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
	assert.False(t, IsAppError(stderrors.New("plain")))
	assert.True(t, IsAppError(ConfigInvalid("bad")))
	assert.True(t, core.IsConfigError(ConfigInvalid("bad")))
}

func TestConstructors(t *testing.T) {
	cause := stderrors.New("connection reset")
	tests := []struct {
		name string
		err  *AppError
		code string
		msg  string
	}{
		{"invalid input", InvalidInput("records missing"), CodeInvalidInput, "records missing"},
		{"internal", InternalError("bad cache entry"), CodeInternalError, "bad cache entry"},
		{"external", ExternalServiceError("chembl", cause), CodeExternalService, "chembl service error: connection reset"},
		{"not found", NotFound("input.csv"), CodeNotFound, "input.csv not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.code, CodeFor(tt.err))
			assert.Contains(t, tt.err.Error(), tt.msg)
		})
	}
	assert.ErrorIs(t, ExternalServiceError("chembl", cause), cause)
}

func TestWrapf(t *testing.T) {
	err := Wrapf(core.ErrStructureParse, "record %d", 7)
	assert.Equal(t, CodeStructureParse, GetCode(err))
	assert.Equal(t, "record 7: "+core.ErrStructureParse.Error(), err.Error())
	assert.Nil(t, Wrapf(nil, "record %d", 7))
}

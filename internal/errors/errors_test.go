package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"teamtools/domain/core"
)

func TestWrap_KeepsInnerCode(t *testing.T) {
	inner := ValidationError("alpha is required")
	wrapped := Wrapf(inner, "plan request %d", 7)

	assert.Equal(t, CodeValidationError, GetCode(wrapped))
	assert.Equal(t, "plan request 7: alpha is required", wrapped.Error())
	assert.True(t, stderrors.Is(wrapped, inner))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"domain sentinel", core.ErrZeroEffect, CodeDomainError},
		{"wrapped domain", fmt.Errorf("week 3: %w", core.ErrNonPositiveSampleSize), CodeDomainError},
		{"validation", core.NewValidationError("max_n", "is required"), CodeValidationError},
		{"app error", NotFound("plan"), CodeNotFound},
		{"plain", stderrors.New("boom"), CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeInvalidInput, stderrors.New("bad json"))
	assert.Equal(t, CodeInvalidInput, GetCode(err))
	assert.True(t, IsAppError(err))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}

func TestDomainError(t *testing.T) {
	err := DomainError(core.ErrProbabilityOutOfRange)
	assert.Equal(t, CodeDomainError, err.Code)
	assert.ErrorIs(t, err, core.ErrDomain)
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeValidationError))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidInput))
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatus(CodeDomainError))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternalError))
}

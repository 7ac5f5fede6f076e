package http

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/classmeet/server/internal/core/domain"
)

func TestToWireError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("%w: transport t1", domain.ErrNotFound), codeNotFound},
		{fmt.Errorf("%w: producer p1", domain.ErrPermissionDenied), codePermission},
		{domain.ErrIncompatible, codeIncompat},
		{&domain.EngineError{Op: "produce", Err: errors.New("port exhaustion")}, codeEngine},
		{errors.New("unknown method"), codeBadRequest},
	}

	for _, tc := range cases {
		got := toWireError(tc.err)
		assert.Equal(t, tc.code, got.Code)
		assert.NotEmpty(t, got.Message)
	}
}

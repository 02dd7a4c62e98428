package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: bad price", common.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: user already exists", common.ErrConflict), http.StatusBadRequest},
		{common.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("%w: sig", common.ErrInvalidToken), http.StatusUnauthorized},
		{common.ErrTokenExpired, http.StatusUnauthorized},
		{common.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("lookup: %w", common.ErrorNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: disk", common.ErrStorage), http.StatusInternalServerError},
		{errors.New("something else"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}

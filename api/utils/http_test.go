// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vechain/stakepool/reverts"
)

func TestWrapHandlerFunc(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"ok", nil, http.StatusOK, ""},
		{"bad request", BadRequest(errors.New("bad")), http.StatusBadRequest, ""},
		{"forbidden", Forbidden(errors.New("no")), http.StatusForbidden, ""},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ""},
		{"unauthorized", reverts.ErrUnauthorized, http.StatusForbidden, "Unauthorized"},
		{"not found", pkgerrors.WithMessage(reverts.ErrNotFound, "pool 3"), http.StatusNotFound, "NotFound"},
		{"paused", reverts.ErrPaused, http.StatusConflict, "Paused"},
		{"invalid amount", reverts.ErrInvalidAmount, http.StatusBadRequest, "InvalidAmount"},
		{"transfer failed", reverts.Wrap(reverts.TransferFailed, errors.New("short"), "transfer out"), http.StatusBadRequest, "TransferFailed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := WrapHandlerFunc(func(http.ResponseWriter, *http.Request) error { return tt.err })
			rr := httptest.NewRecorder()
			h(rr, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tt.status, rr.Code)
			if tt.kind != "" {
				var res ErrorResponse
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
				assert.Equal(t, tt.kind, res.Kind)
				assert.Equal(t, tt.err.Error(), res.Message)
			}
		})
	}
}

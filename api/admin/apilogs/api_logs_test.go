// Copyright (c) 2024 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package apilogs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPILogs(t *testing.T) {
	var enabled atomic.Bool
	router := mux.NewRouter()
	New(&enabled).Mount(router, "/admin/apilogs")

	get := func() LogStatus {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/apilogs", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		var status LogStatus
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &status))
		return status
	}
	assert.False(t, get().Enabled)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/apilogs", strings.NewReader(`{"enabled":true}`)))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, enabled.Load())
	assert.True(t, get().Enabled)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/admin/apilogs", strings.NewReader(`{"enabled":"yes"}`)))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, enabled.Load())
}

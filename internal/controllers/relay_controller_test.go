package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zapperd/internal/providers"
	"zapperd/internal/services"
	"zapperd/internal/testutil"
)

func newTestRelayController(relay *testutil.MockRelayService) *RelayController {
	return NewRelayController(&testutil.MockLogger{}, relay)
}

func TestPutBlob_ReturnsKey(t *testing.T) {
	relay := &testutil.MockRelayService{PutCode: "33333"}
	rc := newTestRelayController(relay)

	req := httptest.NewRequest(http.MethodPut, "/relay", strings.NewReader(`{"devices":"e30="}`))
	rr := httptest.NewRecorder()
	rc.PutBlob(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "33333", resp["key"])
	require.Len(t, relay.PutCalls, 1)
	assert.Equal(t, `{"devices":"e30="}`, relay.PutCalls[0])
}

func TestPutBlob_EmptyBody(t *testing.T) {
	relay := &testutil.MockRelayService{}
	rc := newTestRelayController(relay)

	req := httptest.NewRequest(http.MethodPut, "/relay", strings.NewReader(""))
	rr := httptest.NewRecorder()
	rc.PutBlob(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, relay.PutCalls)
}

func TestPutBlob_StoreErrors(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"not configured": {providers.ErrRelayNotConfigured, http.StatusInternalServerError},
		"unreachable":    {providers.ErrRelayUnreachable, http.StatusInternalServerError},
		"rejected 503":   {&providers.RelayRejectedError{StatusCode: 503}, 503},
		"rejected 429":   {&providers.RelayRejectedError{StatusCode: 429}, 429},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			relay := &testutil.MockRelayService{PutErr: tc.err}
			rc := newTestRelayController(relay)

			req := httptest.NewRequest(http.MethodPut, "/relay", strings.NewReader("payload"))
			rr := httptest.NewRecorder()
			rc.PutBlob(rr, req)

			assert.Equal(t, tc.status, rr.Code)
		})
	}
}

func TestGetBlob_ReturnsInnerJSON(t *testing.T) {
	relay := &testutil.MockRelayService{GetData: []byte(`[{"id":"D1"}]`)}
	rc := newTestRelayController(relay)

	req := httptest.NewRequest(http.MethodGet, "/relay/33333", nil)
	req.SetPathValue("key", "33333")
	rr := httptest.NewRecorder()
	rc.GetBlob(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `[{"id":"D1"}]`, rr.Body.String())
	assert.Equal(t, []string{"33333"}, relay.GetCalls)
}

func TestGetBlob_ErrorMapping(t *testing.T) {
	cases := map[string]struct {
		err    error
		status int
	}{
		"invalid code": {services.ErrInvalidCode, http.StatusBadRequest},
		"not found":    {providers.ErrRelayNotFound, http.StatusNotFound},
		"bad envelope": {services.ErrBadEnvelope, http.StatusInternalServerError},
		"unreachable":  {providers.ErrRelayUnreachable, http.StatusInternalServerError},
		"rejected":     {&providers.RelayRejectedError{StatusCode: 503}, 503},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			relay := &testutil.MockRelayService{GetErr: tc.err}
			rc := newTestRelayController(relay)

			req := httptest.NewRequest(http.MethodGet, "/relay/33333", nil)
			req.SetPathValue("key", "33333")
			rr := httptest.NewRecorder()
			rc.GetBlob(rr, req)

			assert.Equal(t, tc.status, rr.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestGetBlob_MissingKey(t *testing.T) {
	rc := newTestRelayController(&testutil.MockRelayService{})

	req := httptest.NewRequest(http.MethodGet, "/relay/", nil)
	rr := httptest.NewRecorder()
	rc.GetBlob(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

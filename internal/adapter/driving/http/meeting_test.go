package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/classmeet/server/internal/adapter/driven/persistence/memory"
	"github.com/classmeet/server/internal/core/domain"
	"github.com/classmeet/server/internal/core/service"
)

// meetingResponse mirrors apiResponse with the data field typed for decoding.
type meetingResponse struct {
	Success bool           `json:"success"`
	Data    domain.Meeting `json:"data"`
	Message string         `json:"message"`
}

func newMeetingRouter() http.Handler {
	meetings := service.NewMeetingService(memory.NewMeetingRepository())
	return NewHandler(nil, meetings, []string{"*"}).NewRouter()
}

func doRequest(t *testing.T, router http.Handler, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateMeetingDefaults(t *testing.T) {
	router := newMeetingRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/meetings/", []byte(`{}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Data.ID)
	require.True(t, strings.HasPrefix(resp.Data.Name, "Meeting "))
	require.True(t, resp.Data.Settings.EnableChat)
	require.Equal(t, 10, resp.Data.Settings.MaxParticipants)
}

func TestCreateMeetingWithSettings(t *testing.T) {
	router := newMeetingRouter()

	body := []byte(`{"name":"Algebra","settings":{"enableChat":false,"enableScreenShare":true,"maxParticipants":4}}`)
	rec := doRequest(t, router, http.MethodPost, "/api/meetings/", body)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "Algebra", resp.Data.Name)
	require.False(t, resp.Data.Settings.EnableChat)
	require.Equal(t, 4, resp.Data.Settings.MaxParticipants)
}

func TestCreateMeetingBadBody(t *testing.T) {
	router := newMeetingRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/meetings/", []byte(`not json`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMeeting(t *testing.T) {
	router := newMeetingRouter()

	rec := doRequest(t, router, http.MethodPost, "/api/meetings/", []byte(`{"name":"History"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	var created meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doRequest(t, router, http.MethodGet, "/api/meetings/"+created.Data.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var fetched meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	require.Equal(t, created.Data.ID, fetched.Data.ID)
	require.Equal(t, "History", fetched.Data.Name)
}

func TestGetMeetingNotFound(t *testing.T) {
	router := newMeetingRouter()

	rec := doRequest(t, router, http.MethodGet, "/api/meetings/nope", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	var resp meetingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.False(t, resp.Success)
}

func TestListMeetings(t *testing.T) {
	router := newMeetingRouter()

	for _, name := range []string{"One", "Two"} {
		rec := doRequest(t, router, http.MethodPost, "/api/meetings/", []byte(`{"name":"`+name+`"}`))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(t, router, http.MethodGet, "/api/meetings/", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Success bool             `json:"success"`
		Data    []domain.Meeting `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 2)
}

package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type recordingLogger struct {
	urls     []string
	statuses []int
}

func (l *recordingLogger) LogRequest(_, url string, _ map[string]string) {
	l.urls = append(l.urls, url)
}

func (l *recordingLogger) LogResponseSuccess(_, _ string, status int, _ int64) {
	l.statuses = append(l.statuses, status)
}

func (l *recordingLogger) LogResponseError(_, _ string, status int, _ string, _ int64, _ error) {
	l.statuses = append(l.statuses, status)
}

func TestRequest_EncodesQueryAndDecodesJSON(t *testing.T) {
	var got url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/data/weather", r.URL.Path)
		got = r.URL.Query()
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_, _ = w.Write([]byte(`{"name":"ok","count":2}`))
	}))
	defer server.Close()

	logger := &recordingLogger{}
	client := NewHttpClient(server.URL+"/data/", ClientOptions{Logger: logger})

	success, errResp, status, err := client.Request().
		WithContext(context.Background()).
		WithPath("weather").
		WithQueryParams(map[string]string{"q": "New York, US", "appid": "secret"}).
		WithSuccessResp(&payload{}).
		Execute()

	require.NoError(t, err)
	assert.Nil(t, errResp)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, &payload{Name: "ok", Count: 2}, success)
	assert.Equal(t, "New York, US", got.Get("q"))
	assert.Equal(t, "secret", got.Get("appid"))

	require.Len(t, logger.urls, 1)
	assert.NotContains(t, logger.urls[0], "secret")
	assert.Equal(t, []int{http.StatusOK}, logger.statuses)
}

func TestRequest_NonSuccessReturnsStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"name":"city not found"}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{})
	success, errResp, status, err := client.Request().
		WithPath("/weather").
		WithSuccessResp(&payload{}).
		WithErrorResp(&payload{}).
		Execute()

	assert.Nil(t, success)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, &payload{Name: "city not found"}, errResp)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
}

func TestRequest_UndecodableErrorBodyKeepsStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{})
	_, errResp, status, err := client.Request().WithErrorResp(&payload{}).Execute()

	assert.Nil(t, errResp)
	assert.Equal(t, http.StatusBadGateway, status)
	var statusErr *StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestRequest_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewHttpClient(server.URL, ClientOptions{})
	_, _, status, err := client.Request().WithContext(ctx).Execute()

	assert.Equal(t, 0, status)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequest_RequiresClient(t *testing.T) {
	_, _, _, err := NewHttpClientRequest(nil).Execute()
	assert.EqualError(t, err, "client is required")
}

func TestClient_SendsDefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"geo","count":5}`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{DefaultHeaders: map[string]string{"Accept": "application/json"}})
	success, _, status, err := client.Request().
		WithMethod(GET).
		WithPath("/direct").
		WithQueryParams(map[string]string{"limit": "5"}).
		WithSuccessResp(&payload{}).
		Execute()

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, &payload{Name: "geo", Count: 5}, success)
}

func TestRequest_MalformedSuccessBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":`))
	}))
	defer server.Close()

	client := NewHttpClient(server.URL, ClientOptions{})
	success, _, status, err := client.Request().WithSuccessResp(&payload{}).Execute()

	assert.Nil(t, success)
	assert.Equal(t, http.StatusOK, status)
	require.Error(t, err)
	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

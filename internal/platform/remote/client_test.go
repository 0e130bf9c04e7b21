package remote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/freightdesk/freightdesk/internal/platform/httpx"
)

func TestClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	ctx := WithBearer(context.Background(), "token-123")

	var out struct {
		OK bool `json:"ok"`
	}
	require.NoError(t, client.Get(ctx, "/bookings", &out))
	require.True(t, out.OK)
	require.Equal(t, "Bearer token-123", gotAuth)
}

func TestClientOmitsAuthorizationWhenAnonymous(t *testing.T) {
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawHeader = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	require.NoError(t, client.Get(context.Background(), "/ports", nil))
	require.False(t, sawHeader)
}

func TestClientMapsErrorStatuses(t *testing.T) {
	cases := []struct {
		status int
		want   error
	}{
		{http.StatusNotFound, httpx.ErrNotFound},
		{http.StatusUnauthorized, httpx.ErrUnauthorized},
		{http.StatusForbidden, httpx.ErrForbidden},
		{http.StatusConflict, httpx.ErrDuplicate},
		{http.StatusBadRequest, httpx.ErrValidation},
		{http.StatusUnprocessableEntity, httpx.ErrValidation},
		{http.StatusInternalServerError, httpx.ErrRemote},
		{http.StatusBadGateway, httpx.ErrRemote},
	}

	for _, tc := range cases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(`{"message":"hwb number already taken"}`))
		}))

		err := NewClient(srv.URL, time.Second).Get(context.Background(), "/bookings", nil)
		require.ErrorIs(t, err, tc.want, "status %d", tc.status)
		require.Contains(t, err.Error(), "hwb number already taken")
		srv.Close()
	}
}

func TestClientErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewClient(srv.URL, time.Second).Get(context.Background(), "/bookings", nil)
	require.ErrorIs(t, err, httpx.ErrRemote)
	require.Contains(t, err.Error(), http.StatusText(http.StatusServiceUnavailable))
}

func TestClientPostMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		require.Equal(t, "SEA", r.FormValue("type"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer func() { _ = file.Close() }()
		require.Equal(t, "damage.jpg", header.Filename)
		httpxWriteJSON(w, `{"id":7}`)
	}))
	defer srv.Close()

	var out struct {
		ID int64 `json:"id"`
	}
	err := NewClient(srv.URL, time.Second).PostMultipart(context.Background(), "/incidents",
		map[string]string{"type": "SEA"},
		&Upload{Field: "image", Filename: "damage.jpg", ContentType: "image/jpeg", Data: []byte("fake")},
		&out,
	)
	require.NoError(t, err)
	require.Equal(t, int64(7), out.ID)
}

func httpxWriteJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

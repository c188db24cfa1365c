package autoriafetcher

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ch1kkapo0m/scraping-auto/internal/core/domain"
	"github.com/ch1kkapo0m/scraping-auto/pkg/gate"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, baseURL string) *PhoneResolverAdapter {
	t.Helper()
	resolver, err := NewPhoneResolverAdapter(PhoneResolverConfig{
		BaseURL:    baseURL,
		Gate:       gate.New(1),
		Retries:    3,
		RetryDelay: 5 * time.Millisecond,
		Timeout:    2 * time.Second,
	})
	require.NoError(t, err)
	return resolver
}

func completeToken() domain.PhoneToken {
	return domain.PhoneToken{CarID: "37001234", Hash: "abc123", Expires: "86400"}
}

func TestResolveIncompleteTokenSkipsNetwork(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL+"/users/phones/")

	phone := resolver.Resolve(context.Background(), domain.PhoneToken{CarID: "37001234"})

	assert.Nil(t, phone)
	assert.Equal(t, int32(0), requests.Load())
}

func TestResolveSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "abc123", r.URL.Query().Get("hash"))
		assert.Equal(t, "86400", r.URL.Query().Get("expires"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"phones":[{"phoneFormatted":"(67) 123-45-67"},{"phoneFormatted":"(50) 765-43-21"}]}`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL+"/users/phones/")

	phone := resolver.Resolve(context.Background(), completeToken())

	require.NotNil(t, phone)
	assert.Equal(t, "(67) 123-45-67", *phone)
}

func TestResolveRetriesOnServerError(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL+"/users/phones/")

	phone := resolver.Resolve(context.Background(), completeToken())

	assert.Nil(t, phone)
	assert.Equal(t, int32(3), requests.Load())
}

func TestResolveEmptyPhoneList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"phones":[]}`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL+"/users/phones/")

	phone := resolver.Resolve(context.Background(), completeToken())

	assert.Nil(t, phone)
}

func TestResolveRecoversAfterFailure(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"phones":[{"phoneFormatted":"(93) 000-11-22"}]}`)
	}))
	defer server.Close()

	resolver := newTestResolver(t, server.URL+"/users/phones/")

	phone := resolver.Resolve(context.Background(), completeToken())

	require.NotNil(t, phone)
	assert.Equal(t, "(93) 000-11-22", *phone)
	assert.Equal(t, int32(2), requests.Load())
}

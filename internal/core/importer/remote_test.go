package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recipe-box/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRemoteConfig() config.RemoteConfig {
	return config.RemoteConfig{
		RecipesPath: "/api/v1/recipes",
		PageSize:    10,
		Timeout:     5 * time.Second,
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"https passes through", "https://recipes.example.com", "https://recipes.example.com"},
		{"http passes through", "http://recipes.example.com", "http://recipes.example.com"},
		{"bare scheme separator", "://recipes.example.com", "http://recipes.example.com"},
		{"no scheme", "recipes.example.com", "http://recipes.example.com"},
		{"surrounding whitespace", "  recipes.example.com ", "http://recipes.example.com"},
		{"unknown scheme", "ftp://recipes.example.com", "ftp://recipes.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.input))
		})
	}
}

func TestFetchPageQueryParams(t *testing.T) {
	var gotQueries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/recipes", r.URL.Path)
		gotQueries = append(gotQueries, r.URL.RawQuery)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 1, "title": {"rendered": "Toast"}, "slug": "toast", "content": {"rendered": ""}, "cook_times": {"prep_time": "", "cook_time": "", "total_time": ""}}]`))
	}))
	defer srv.Close()

	client := NewRemoteClient(testRemoteConfig(), nil)

	items, err := client.FetchPage(context.Background(), srv.URL, 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Toast", items[0].Title.Rendered)

	_, err = client.FetchPage(context.Background(), srv.URL, 2)
	require.NoError(t, err)

	require.Len(t, gotQueries, 2)
	// The first page carries no page parameter at all.
	assert.Equal(t, "per_page=10", gotQueries[0])
	assert.Contains(t, gotQueries[1], "page=2")
	assert.Contains(t, gotQueries[1], "per_page=10")
}

func TestFetchPageErrors(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client := NewRemoteClient(testRemoteConfig(), nil)
		_, err := client.FetchPage(context.Background(), srv.URL, 1)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("non-JSON body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>not an API</html>"))
		}))
		defer srv.Close()

		client := NewRemoteClient(testRemoteConfig(), nil)
		_, err := client.FetchPage(context.Background(), srv.URL, 1)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := NewRemoteClient(testRemoteConfig(), nil)
		_, err := client.FetchPage(context.Background(), "http://127.0.0.1:1", 1)
		assert.ErrorIs(t, err, ErrFetchFailed)
	})
}

func TestFetchRecipe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/recipes/9", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 9, "title": {"rendered": "Soup"}, "slug": "soup", "content": {"rendered": ""}, "cook_times": {"prep_time": 10, "cook_time": 30, "total_time": ""}}`))
	}))
	defer srv.Close()

	client := NewRemoteClient(testRemoteConfig(), nil)

	// A trailing slash on the base URL must not double up.
	item, err := client.FetchRecipe(context.Background(), srv.URL+"/", "9")
	require.NoError(t, err)
	assert.Equal(t, "Soup", item.Title.Rendered)
	assert.Equal(t, "soup", item.Slug)
}

package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &Client{BaseURL: srv.URL, Token: "tok", HTTPC: srv.Client()}
}

func repoJSON(names ...string) []map[string]any {
	repos := make([]map[string]any, 0, len(names))
	for _, n := range names {
		repos = append(repos, map[string]any{
			"name":             n,
			"language":         "Python",
			"stargazers_count": 5,
			"clone_url":        "https://github.com/acme/" + n + ".git",
			"owner":            map[string]any{"login": "acme"},
		})
	}
	return repos
}

func TestListRepositoriesOrg(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "token tok", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "all", r.URL.Query().Get("type"))
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode(repoJSON("alpha", "beta"))
		default:
			json.NewEncoder(w).Encode([]any{})
		}
	})

	c := testClient(t, mux)
	repos, err := c.ListRepositories(context.Background(), "acme")
	require.NoError(t, err)

	require.Len(t, repos, 2)
	require.Equal(t, "alpha", repos[0].Name)
	require.Equal(t, "acme", repos[0].Owner)
	require.Equal(t, "Python", repos[0].Language)
	require.Equal(t, 5, repos[0].Stars)
	require.Equal(t, "beta", repos[1].Name)
}

func TestListRepositoriesUser(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/someone", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	mux.HandleFunc("/user/repos", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "1" {
			json.NewEncoder(w).Encode(repoJSON("private-thing"))
			return
		}
		json.NewEncoder(w).Encode([]any{})
	})

	c := testClient(t, mux)
	repos, err := c.ListRepositories(context.Background(), "someone")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	require.Equal(t, "private-thing", repos[0].Name)
}

func TestListRepositoriesError(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	})

	c := testClient(t, mux)
	_, err := c.ListRepositories(context.Background(), "acme")
	require.Error(t, err)
	require.Contains(t, err.Error(), "Bad credentials")
}

func TestGetRepositoryInfo(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widget", func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(repoJSON("widget")[0])
	})

	c := testClient(t, mux)
	info, err := c.GetRepositoryInfo(context.Background(), "https://github.com/acme/widget.git")
	require.NoError(t, err)
	require.Equal(t, "widget", info.Name)
	require.Equal(t, "acme", info.Owner)
}

func TestGetRepositoryInfoBadURL(t *testing.T) {
	t.Parallel()

	c := NewClient("")

	for _, u := range []string{
		"https://gitlab.com/acme/widget",
		"https://github.com/acme",
		"not a url at all",
	} {
		_, err := c.GetRepositoryInfo(context.Background(), u)
		require.Error(t, err, u)
	}
}

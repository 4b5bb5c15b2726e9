// Package github is the remote repository-hosting client: listing the
// repositories of an account, fetching metadata for one repository, and
// cloning a working copy for the extractors to read.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pyventory/pyventory/internal/model"
)

const defaultBaseURL = "https://api.github.com"

// perPage is the page size used when listing repositories.
const perPage = 100

// Client talks to the GitHub REST API. The zero token is fine for public
// repositories.
type Client struct {
	BaseURL string
	Token   string
	HTTPC   *http.Client
}

// NewClient returns a client authenticated with token.
func NewClient(token string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Token:   token,
		HTTPC:   &http.Client{Timeout: 30 * time.Second},
	}
}

type apiRepo struct {
	Name     string `json:"name"`
	Language string `json:"language"`
	Stars    int    `json:"stargazers_count"`
	Forks    int    `json:"forks_count"`
	Watchers int    `json:"watchers_count"`
	Updated  string `json:"updated_at"`
	Private  bool   `json:"private"`
	CloneURL string `json:"clone_url"`
	SSHURL   string `json:"ssh_url"`
	Owner    struct {
		Login string `json:"login"`
	} `json:"owner"`
}

func (r apiRepo) toInfo() model.RepoInfo {
	return model.RepoInfo{
		Name:      r.Name,
		Owner:     r.Owner.Login,
		Language:  r.Language,
		Stars:     r.Stars,
		Forks:     r.Forks,
		Watchers:  r.Watchers,
		UpdatedAt: r.Updated,
		Private:   r.Private,
		CloneURL:  r.CloneURL,
		SSHURL:    r.SSHURL,
	}
}

// ListRepositories returns every repository of a user or organization.
// Organizations are probed first; for users the authenticated /user/repos
// listing is used so private repositories are included.
func (c *Client) ListRepositories(ctx context.Context, account string) ([]model.RepoInfo, error) {
	listPath := "/user/repos"
	if c.isOrg(ctx, account) {
		listPath = "/orgs/" + account + "/repos?type=all"
	}

	var repos []model.RepoInfo
	for page := 1; ; page++ {
		var batch []apiRepo
		u := listPath
		if strings.Contains(u, "?") {
			u += "&"
		} else {
			u += "?"
		}
		u += "per_page=" + strconv.Itoa(perPage) + "&page=" + strconv.Itoa(page)

		if err := c.get(ctx, u, &batch); err != nil {
			return nil, err
		}
		if len(batch) == 0 {
			break
		}
		for _, r := range batch {
			repos = append(repos, r.toInfo())
		}
	}
	return repos, nil
}

// GetRepositoryInfo fetches metadata for one repository from its web URL.
func (c *Client) GetRepositoryInfo(ctx context.Context, repoURL string) (model.RepoInfo, error) {
	parsed, err := url.Parse(repoURL)
	if err != nil || parsed.Host != "github.com" {
		return model.RepoInfo{}, fmt.Errorf("not a GitHub repository URL: %s", repoURL)
	}
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return model.RepoInfo{}, fmt.Errorf("not a GitHub repository URL: %s", repoURL)
	}
	owner, name := parts[0], strings.TrimSuffix(parts[1], ".git")

	var repo apiRepo
	if err := c.get(ctx, "/repos/"+owner+"/"+name, &repo); err != nil {
		return model.RepoInfo{}, err
	}
	info := repo.toInfo()
	if info.Owner == "" {
		info.Owner = owner
	}
	return info, nil
}

// CloneRepository clones repo under destDir and returns the checkout path.
// An existing checkout is reused, which makes repeated inventory runs cheap.
// Private repositories are cloned over HTTPS with the token injected.
func (c *Client) CloneRepository(ctx context.Context, repo model.RepoInfo, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", fmt.Errorf("destination: %w", err)
	}

	clonePath := filepath.Join(destDir, repo.Name)
	if _, err := os.Stat(clonePath); err == nil {
		return clonePath, nil
	}

	cloneURL := repo.CloneURL
	if repo.Private && c.Token != "" {
		cloneURL = fmt.Sprintf("https://%s@github.com/%s/%s.git", c.Token, repo.Owner, repo.Name)
	}

	cmd := exec.CommandContext(ctx, "git", "clone", cloneURL, clonePath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return "", fmt.Errorf("cloning %s: %v: %s", repo.Name, err, strings.TrimSpace(string(out)))
	}
	return clonePath, nil
}

func (c *Client) isOrg(ctx context.Context, account string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/orgs/"+account, nil)
	if err != nil {
		return false
	}
	c.auth(req)
	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return err
	}
	c.auth(req)

	resp, err := c.HTTPC.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("github: %s: %s", path, apiErr.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) auth(req *http.Request) {
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
}

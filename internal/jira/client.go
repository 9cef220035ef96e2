package jira

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/Ilia01/jira2md/internal/config"
	"github.com/Ilia01/jira2md/internal/models"
)

type Client struct {
	baseURL string
	email   string
	auth    config.AuthMethod
	http    *http.Client
}

func NewClient(baseURL, email string, auth config.AuthMethod) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		email:   email,
		auth:    auth,
		http: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *Client) apiVersion() string {
	if v := os.Getenv("JIRA_API_VERSION"); v != "" {
		return v
	}
	return "latest"
}

func (c *Client) applyAuth(req *http.Request) {
	switch c.auth.Type {
	case config.AuthPersonalAccessToken:
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.auth.Token))
	default:
		req.SetBasicAuth(c.email, c.auth.Token)
	}
}

// FetchIssueXML downloads the single-issue XML view, the same document the
// "Export > XML" menu in Jira produces.
func (c *Client) FetchIssueXML(issueKey string) ([]byte, error) {
	key := url.PathEscape(issueKey)
	endpoint := fmt.Sprintf("%s/si/jira.issueviews:issue-xml/%s/%s.xml", c.baseURL, key, key)
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/xml")
	c.applyAuth(req)

	var body []byte
	err = c.do(req, func(data []byte) error {
		body = data
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", issueKey, err)
	}
	return body, nil
}

func (c *Client) SearchWithJQL(jql string, limit int) ([]models.JiraTicket, error) {
	endpoint := fmt.Sprintf("%s/rest/api/%s/search", c.baseURL, c.apiVersion())
	payload := map[string]any{
		"jql":        jql,
		"fields":     []string{"summary", "status"},
		"maxResults": limit,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	c.applyAuth(req)

	var response struct {
		Issues []models.JiraTicket `json:"issues"`
	}
	if err := c.doJSON(req, &response); err != nil {
		return nil, err
	}
	return response.Issues, nil
}

func (c *Client) TestConnection() error {
	endpoint := fmt.Sprintf("%s/rest/api/%s/myself", c.baseURL, c.apiVersion())
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	c.applyAuth(req)
	return c.do(req, nil)
}

func (c *Client) doJSON(req *http.Request, v any) error {
	return c.do(req, func(body []byte) error {
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(body, v); err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return nil
	})
}

func (c *Client) do(req *http.Request, handler func([]byte) error) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("jira api error (%d): %s", resp.StatusCode, string(data))
	}

	if handler != nil {
		return handler(data)
	}
	return nil
}

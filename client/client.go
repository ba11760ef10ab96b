// Package client talks to a running kupovi API server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/selimhanmrl/kupovi/models"
)

const defaultTimeout = 30 * time.Second

type ClientConfig struct {
	Host    string
	Port    string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	config     ClientConfig
	httpClient *http.Client
}

// InventoryOptions are the query parameters of /api/pods and /api/nodes.
type InventoryOptions struct {
	Namespace string
	Labels    string
	Display   string
}

func (o InventoryOptions) values() url.Values {
	v := url.Values{}
	if o.Namespace != "" {
		v.Set("namespace", o.Namespace)
	}
	if o.Labels != "" {
		v.Set("labels", o.Labels)
	}
	if o.Display != "" {
		v.Set("display", o.Display)
	}
	return v
}

// APIError is a non-2xx answer from the API server.
type APIError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *APIError) Error() string {
	if e.Details == "" {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.StatusCode, e.Details)
}

func NewClient(config ClientConfig) *Client {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == "" {
		config.Port = "5010"
	}
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}

	return &Client{
		baseURL:    "http://" + net.JoinHostPort(config.Host, config.Port),
		config:     config,
		httpClient: &http.Client{Timeout: config.Timeout},
	}
}

func (c *Client) GetConfig() ClientConfig {
	return c.config
}

// GetInventory fetches the node/pod view.
func (c *Client) GetInventory(ctx context.Context, opts InventoryOptions) (*models.Inventory, error) {
	var inv models.Inventory
	if err := c.get(ctx, "/api/pods", opts.values(), &inv); err != nil {
		return nil, fmt.Errorf("failed to get pods: %w", err)
	}
	return &inv, nil
}

// GetNodes fetches the filtered node list. Namespace is ignored.
func (c *Client) GetNodes(ctx context.Context, opts InventoryOptions) (*models.NodeList, error) {
	opts.Namespace = ""
	var nodes models.NodeList
	if err := c.get(ctx, "/api/nodes", opts.values(), &nodes); err != nil {
		return nil, fmt.Errorf("failed to get nodes: %w", err)
	}
	return &nodes, nil
}

func (c *Client) ListNamespaces(ctx context.Context) ([]string, error) {
	var list models.NamespaceList
	if err := c.get(ctx, "/api/namespaces", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to list namespaces: %w", err)
	}
	return list.Namespaces, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return apiErr
	}
	var payload models.ErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		apiErr.Message = payload.Error
		apiErr.Details = payload.Details
	}
	return apiErr
}

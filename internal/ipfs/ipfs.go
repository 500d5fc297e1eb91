// Package ipfs reads and publishes JSON documents through an IPFS gateway
package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/doyensec/safeurl"
)

// DefaultGateway is used when none is configured
const DefaultGateway = "https://ipfs.io"

const (
	defaultTimeout = 30 * time.Second
	maxBodySize    = 10 << 20
)

// Client reads through one gateway and adds through the gateway or, when
// configured, a node API
type Client struct {
	gateway string
	http    *http.Client

	api     string
	apiHTTP *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the SSRF-guarded default client, for local nodes
// and tests.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithAPI sends adds to the node API at url, e.g. a local daemon on
// http://127.0.0.1:5001. The node is configured by the user and is reached
// without the SSRF guard.
func WithAPI(url string) Option {
	return func(cl *Client) {
		if url != "" {
			cl.api = strings.TrimRight(url, "/")
		}
	}
}

// NewClient creates a client for gateway
func NewClient(gateway string, opts ...Option) *Client {
	c := &Client{gateway: normalize(gateway)}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = safeClient()
		if c.api != "" {
			c.apiHTTP = &http.Client{Timeout: defaultTimeout}
		}
	}
	if c.apiHTTP == nil {
		c.apiHTTP = c.http
	}
	return c
}

// safeClient refuses private, loopback and metadata addresses after DNS
// resolution.
func safeClient() *http.Client {
	config := safeurl.GetConfigBuilder().
		SetTimeout(defaultTimeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return safeurl.Client(config).Client
}

func normalize(gateway string) string {
	if gateway == "" {
		gateway = DefaultGateway
	}
	return strings.TrimRight(gateway, "/")
}

// Gateway returns the gateway base URL
func (c *Client) Gateway() string {
	return c.gateway
}

// API returns the node API adds are sent to, the gateway when none is set
func (c *Client) API() string {
	if c.api != "" {
		return c.api
	}
	return c.gateway
}

// WithGateway returns a client for another gateway sharing the HTTP clients
// and node API
func (c *Client) WithGateway(gateway string) *Client {
	return &Client{gateway: normalize(gateway), http: c.http, api: c.api, apiHTTP: c.apiHTTP}
}

// Get fetches cid from the gateway and decodes it as JSON into v
func (c *Client) Get(ctx context.Context, cid string, v any) error {
	if cid == "" {
		return fmt.Errorf("empty cid")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.gateway+"/ipfs/"+cid, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", cid, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to fetch %s: gateway returned %s", cid, resp.Status)
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", cid, err)
	}
	return nil
}

// Add publishes v as a JSON file and returns its CID
func (c *Client) Add(ctx context.Context, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	part, err := form.CreateFormFile("file", "config.json")
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := form.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.API()+"/api/v0/add", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.apiHTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to add document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to add document: gateway returned %s", resp.Status)
	}
	var result struct {
		Hash string `json:"Hash"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode add response: %w", err)
	}
	if result.Hash == "" {
		return "", fmt.Errorf("gateway returned no hash")
	}
	return result.Hash, nil
}

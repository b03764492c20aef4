// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/poiesic/recallit/vectorstore"
)

const (
	defaultControllerHost = "https://api.pinecone.io"
	apiVersion            = "2024-07"

	requestTimeout = 30 * time.Second

	// Index creation is asynchronous. EnsureIndex polls readiness at this
	// interval, bounded by readyWaitMax when the context has no deadline.
	readyPollInterval = 2 * time.Second
	readyWaitMax      = 2 * time.Minute
)

// Client talks to Pinecone over its REST API. Control-plane calls (index
// lifecycle) go to the controller host; data-plane calls go to the index
// host, which is discovered once and cached.
type Client struct {
	config     *vectorstore.Config
	httpClient *http.Client
	logger     *slog.Logger

	mu        sync.Mutex
	indexHost string
}

var _ vectorstore.Index = (*Client)(nil)

// NewClient validates the configuration and returns a Pinecone-backed
// index client. A missing credential or index name fails here, not at
// first use.
func NewClient(config *vectorstore.Config) (vectorstore.Index, error) {
	return newClient(config)
}

func newClient(config *vectorstore.Config) (*Client, error) {
	if config == nil {
		config = vectorstore.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("pinecone configuration: %w", err)
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     slog.Default().With("component", "pinecone"),
		indexHost:  config.IndexHost,
	}, nil
}

type createIndexRequest struct {
	Name      string          `json:"name"`
	Dimension int             `json:"dimension"`
	Metric    string          `json:"metric"`
	Spec      createIndexSpec `json:"spec"`
}

type createIndexSpec struct {
	Serverless serverlessSpec `json:"serverless"`
}

type serverlessSpec struct {
	Cloud  string `json:"cloud"`
	Region string `json:"region"`
}

type describeIndexResponse struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

type upsertRequest struct {
	Vectors   []vectorstore.Vector `json:"vectors"`
	Namespace string               `json:"namespace,omitempty"`
}

type queryRequest struct {
	Namespace       string         `json:"namespace,omitempty"`
	Vector          []float32      `json:"vector"`
	TopK            int            `json:"topK"`
	Filter          map[string]any `json:"filter,omitempty"`
	IncludeMetadata bool           `json:"includeMetadata"`
}

type queryResponse struct {
	Matches []vectorstore.Match `json:"matches"`
}

type deleteRequest struct {
	IDs       []string       `json:"ids,omitempty"`
	DeleteAll bool           `json:"deleteAll,omitempty"`
	Filter    map[string]any `json:"filter,omitempty"`
	Namespace string         `json:"namespace,omitempty"`
}

// IndexExists reports whether the configured index has been created.
func (c *Client) IndexExists(ctx context.Context) (bool, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.controllerURL()+"/indexes/"+c.config.IndexName, nil)
	if err != nil {
		return false, fmt.Errorf("describe index: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return false, fmt.Errorf("describe index: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("describe index failed (%d): %s", resp.StatusCode, body)
	}
}

// EnsureIndex creates the configured serverless index if it does not
// exist and waits until it is ready to serve.
func (c *Client) EnsureIndex(ctx context.Context) error {
	exists, err := c.IndexExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		c.logger.Debug("index already exists", "index", c.config.IndexName)
		return nil
	}

	payload := createIndexRequest{
		Name:      c.config.IndexName,
		Dimension: c.config.Dimension,
		Metric:    c.config.Metric,
		Spec: createIndexSpec{
			Serverless: serverlessSpec{Cloud: c.config.Cloud, Region: c.config.Region},
		},
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.controllerURL()+"/indexes", payload)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		c.logger.Info("index created",
			"index", c.config.IndexName,
			"dimension", c.config.Dimension,
			"metric", c.config.Metric)
	case http.StatusConflict:
		// Lost a creation race. The index exists, which is all we wanted.
		c.logger.Debug("index already exists", "index", c.config.IndexName)
		return nil
	default:
		return fmt.Errorf("create index failed (%d): %s", resp.StatusCode, body)
	}

	return c.waitUntilReady(ctx)
}

// Upsert writes vectors into a namespace.
func (c *Client) Upsert(ctx context.Context, namespace string, vectors []vectorstore.Vector) error {
	host, err := c.hostURL(ctx)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, host+"/vectors/upsert", upsertRequest{
		Vectors:   vectors,
		Namespace: namespace,
	})
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upsert failed (%d): %s", resp.StatusCode, body)
	}
	return nil
}

// Query returns the nearest neighbors of req.Vector within a namespace.
func (c *Client) Query(ctx context.Context, namespace string, req vectorstore.QueryRequest) ([]vectorstore.Match, error) {
	host, err := c.hostURL(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, host+"/query", queryRequest{
		Namespace:       namespace,
		Vector:          req.Vector,
		TopK:            req.TopK,
		Filter:          req.Filter,
		IncludeMetadata: req.IncludeMetadata,
	})
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("query: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query failed (%d): %s", resp.StatusCode, body)
	}

	var parsed queryResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse query response: %w", err)
	}
	return parsed.Matches, nil
}

// DeleteByIDs removes the identified vectors from a namespace.
func (c *Client) DeleteByIDs(ctx context.Context, namespace string, ids []string) error {
	return c.deleteVectors(ctx, deleteRequest{IDs: ids, Namespace: namespace})
}

// DeleteByFilter removes vectors whose metadata matches the filter.
func (c *Client) DeleteByFilter(ctx context.Context, namespace string, filter map[string]any) error {
	return c.deleteVectors(ctx, deleteRequest{Filter: filter, Namespace: namespace})
}

// DeleteAll removes every vector in a namespace.
func (c *Client) DeleteAll(ctx context.Context, namespace string) error {
	return c.deleteVectors(ctx, deleteRequest{DeleteAll: true, Namespace: namespace})
}

func (c *Client) deleteVectors(ctx context.Context, payload deleteRequest) error {
	host, err := c.hostURL(ctx)
	if err != nil {
		return err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, host+"/vectors/delete", payload)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("delete: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		// Serverless indexes report missing namespaces as 404. Nothing to
		// delete is not a failure.
		c.logger.Debug("delete target namespace not found", "namespace", payload.Namespace)
		return nil
	default:
		return fmt.Errorf("delete failed (%d): %s", resp.StatusCode, body)
	}
}

// Stats reports index-wide statistics.
func (c *Client) Stats(ctx context.Context) (*vectorstore.IndexStats, error) {
	host, err := c.hostURL(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := c.doRequest(ctx, http.MethodPost, host+"/describe_index_stats", struct{}{})
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("index stats: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("index stats failed (%d): %s", resp.StatusCode, body)
	}

	var stats vectorstore.IndexStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, fmt.Errorf("parse index stats: %w", err)
	}
	return &stats, nil
}

// hostURL resolves the data-plane endpoint, discovering it from the
// controller on first use.
func (c *Client) hostURL(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.indexHost != "" {
		host := ensureScheme(c.indexHost)
		c.mu.Unlock()
		return host, nil
	}
	c.mu.Unlock()

	described, err := c.describeIndex(ctx)
	if err != nil {
		return "", err
	}
	if described.Host == "" {
		return "", fmt.Errorf("index %q has no host yet", c.config.IndexName)
	}

	c.mu.Lock()
	c.indexHost = described.Host
	c.mu.Unlock()

	c.logger.Debug("resolved index host", "index", c.config.IndexName, "host", described.Host)
	return ensureScheme(described.Host), nil
}

func (c *Client) describeIndex(ctx context.Context) (*describeIndexResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.controllerURL()+"/indexes/"+c.config.IndexName, nil)
	if err != nil {
		return nil, fmt.Errorf("describe index: %w", err)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, fmt.Errorf("describe index: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrIndexNotFound, c.config.IndexName)
	default:
		return nil, fmt.Errorf("describe index failed (%d): %s", resp.StatusCode, body)
	}

	var described describeIndexResponse
	if err := json.Unmarshal(body, &described); err != nil {
		return nil, fmt.Errorf("parse describe response: %w", err)
	}
	return &described, nil
}

func (c *Client) waitUntilReady(ctx context.Context) error {
	deadline := time.Now().Add(readyWaitMax)

	for {
		described, err := c.describeIndex(ctx)
		if err != nil {
			return err
		}
		if described.Status.Ready {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("index %q not ready after %s", c.config.IndexName, readyWaitMax)
		}

		c.logger.Debug("waiting for index to become ready",
			"index", c.config.IndexName,
			"state", described.Status.State)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyPollInterval):
		}
	}
}

func (c *Client) controllerURL() string {
	host := c.config.ControllerHost
	if host == "" {
		host = defaultControllerHost
	}
	return strings.TrimRight(host, "/")
}

func (c *Client) doRequest(ctx context.Context, method, url string, payload any) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Api-Key", c.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Pinecone-API-Version", apiVersion)

	return c.httpClient.Do(req)
}

func readBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

func ensureScheme(host string) string {
	host = strings.TrimRight(host, "/")
	if strings.Contains(host, "://") {
		return host
	}
	return "https://" + host
}

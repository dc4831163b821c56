package client

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ValentinKolb/kvapp/api/common"
	"github.com/go-resty/resty/v2"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("client")

// Client talks to a kvapp server over HTTP.
type Client struct {
	http *resty.Client
}

// New creates a client for the server described by config.
//
// Usage:
//
//	c := client.New(common.ClientConfig{Endpoint: "http://127.0.0.1:8080", TimeoutSecond: 5})
//	if err := c.Put([]byte("1"), []byte("helloworld")); err != nil {
//		return err
//	}
//	value, found, err := c.Get([]byte("1"))
func New(config common.ClientConfig) *Client {
	c := resty.New().
		SetHostURL(config.Endpoint).
		SetRetryCount(config.RetryCount)
	if config.TimeoutSecond > 0 {
		c.SetTimeout(time.Duration(config.TimeoutSecond) * time.Second)
	}
	return &Client{http: c}
}

// --------------------------------------------------------------------------
// Service
// --------------------------------------------------------------------------

// Info returns the service description of the index route.
func (c *Client) Info() (*common.IndexResponse, error) {
	resp, err := c.http.R().Get("/")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, responseError(resp)
	}
	info := &common.IndexResponse{}
	if err := common.Unmarshal(resp.Body(), info); err != nil {
		return nil, fmt.Errorf("invalid index response: %w", err)
	}
	return info, nil
}

// Health returns nil if the server reports a reachable store.
func (c *Client) Health() error {
	resp, err := c.http.R().Get("/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return responseError(resp)
	}
	var health common.HealthResponse
	if err := common.Unmarshal(resp.Body(), &health); err != nil {
		return fmt.Errorf("invalid health response: %w", err)
	}
	if !health.Healthy {
		return fmt.Errorf("server reports unhealthy store")
	}
	return nil
}

// --------------------------------------------------------------------------
// Key-value operations
// --------------------------------------------------------------------------

// Get returns the value of key. found is false if the server answered 404.
func (c *Client) Get(key []byte) (value []byte, found bool, err error) {
	resp, err := c.keyRequest(key).Get("/api/{key}")
	if err != nil {
		return nil, false, err
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return resp.Body(), true, nil
	case http.StatusNotFound:
		return nil, false, nil
	default:
		return nil, false, responseError(resp)
	}
}

// Put stores value under key.
func (c *Client) Put(key, value []byte) error {
	resp, err := c.keyRequest(key).
		SetHeader("Content-Type", "application/octet-stream").
		SetBody(value).
		Put("/api/{key}")
	if err != nil {
		return err
	}
	if resp.StatusCode() != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

// Delete removes key. existed is false if the server answered 404.
func (c *Client) Delete(key []byte) (existed bool, err error) {
	resp, err := c.keyRequest(key).Delete("/api/{key}")
	if err != nil {
		return false, err
	}
	switch resp.StatusCode() {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError(resp)
	}
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// keyRequest creates a request with the escaped key as path parameter
func (c *Client) keyRequest(key []byte) *resty.Request {
	return c.http.R().SetPathParams(map[string]string{"key": string(key)})
}

// responseError converts a non-success response into an error. Error envelopes
// are returned as *common.ApiError.
func responseError(resp *resty.Response) error {
	if apiErr := common.DecodeError(resp.Body()); apiErr != nil {
		Logger.Debugf("%s %s => %d %s", resp.Request.Method, resp.Request.URL, resp.StatusCode(), apiErr.Message)
		return apiErr
	}
	return fmt.Errorf("unexpected response status %d", resp.StatusCode())
}

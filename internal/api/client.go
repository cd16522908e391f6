package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dogjoy/miniapp/internal/metrics"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 4 << 20

// Client handles HTTP requests to the Mini App backend API.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *rate.Limiter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its timeout is kept as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithRateLimit paces outgoing requests to rps requests per second.
// A non-positive rps disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// NewClient creates a new API client.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// --- Request Helpers ---

// doRequest performs an HTTP request and decodes a JSON body into out.
// route is the endpoint template used as the metrics label.
func (c *Client) doRequest(ctx context.Context, method, route, path string, body any, token string, out any) (err error) {
	start := time.Now()
	status := "error"
	defer func() {
		metrics.APIRequestDuration.WithLabelValues(method, route, status).Observe(time.Since(start).Seconds())
	}()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limit: %w", err)
		}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	status = strconv.Itoa(resp.StatusCode)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if !IsSuccess(resp.StatusCode) {
		return newError(method, path, resp, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, route, path, token string, out any) error {
	return c.doRequest(ctx, http.MethodGet, route, path, nil, token, out)
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, route, path string, body any, token string, out any) error {
	return c.doRequest(ctx, http.MethodPost, route, path, body, token, out)
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, route, path string, body any, token string, out any) error {
	return c.doRequest(ctx, http.MethodPut, route, path, body, token, out)
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, route, path, token string, out any) error {
	return c.doRequest(ctx, http.MethodDelete, route, path, nil, token, out)
}

// --- Auth ---

// Login exchanges Telegram init data for a session token.
// The response is returned as received; callers decide whether it is usable.
func (c *Client) Login(ctx context.Context, initData string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Post(ctx, EndpointLogin, EndpointLogin, LoginRequest{InitData: initData}, "", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ValidateToken asks the backend whether token is still accepted.
func (c *Client) ValidateToken(ctx context.Context, token string) error {
	return c.Post(ctx, EndpointValidate, EndpointValidate, map[string]string{"token": token}, "", nil)
}

// --- Users ---

// GetProfile fetches a user profile.
func (c *Client) GetProfile(ctx context.Context, token, userID string) (*User, error) {
	var user User
	if err := c.Get(ctx, EndpointUser, UserPath(userID), token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile updates (or creates) a user profile.
func (c *Client) UpdateProfile(ctx context.Context, token, userID string, update ProfileUpdate) (*User, error) {
	var user User
	if err := c.Put(ctx, EndpointUser, UserPath(userID), update, token, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Pets ---

// GetPets lists the pets owned by a user.
func (c *Client) GetPets(ctx context.Context, token, userID string) ([]Pet, error) {
	var pets []Pet
	if err := c.Get(ctx, EndpointUserPets, UserPetsPath(userID), token, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

// GetPet fetches a single pet.
func (c *Client) GetPet(ctx context.Context, token, petID string) (*Pet, error) {
	var pet Pet
	if err := c.Get(ctx, EndpointPet, PetPath(petID), token, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// CreatePet registers a new pet.
func (c *Client) CreatePet(ctx context.Context, token string, in PetInput) (*Pet, error) {
	var pet Pet
	if err := c.Post(ctx, EndpointPets, EndpointPets, in, token, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// UpdatePet replaces a pet's details.
func (c *Client) UpdatePet(ctx context.Context, token, petID string, in PetInput) (*Pet, error) {
	var pet Pet
	if err := c.Put(ctx, EndpointPet, PetPath(petID), in, token, &pet); err != nil {
		return nil, err
	}
	return &pet, nil
}

// DeletePet removes a pet.
func (c *Client) DeletePet(ctx context.Context, token, petID string) error {
	return c.Delete(ctx, EndpointPet, PetPath(petID), token, nil)
}

// --- Catalog ---

// GetServices lists the service catalog.
func (c *Client) GetServices(ctx context.Context, token string) ([]Service, error) {
	var services []Service
	if err := c.Get(ctx, EndpointServices, EndpointServices, token, &services); err != nil {
		return nil, err
	}
	return services, nil
}

// GetService fetches one catalog service.
func (c *Client) GetService(ctx context.Context, token, serviceID string) (*Service, error) {
	var service Service
	if err := c.Get(ctx, EndpointService, ServicePath(serviceID), token, &service); err != nil {
		return nil, err
	}
	return &service, nil
}

// GetTariffs lists the subscription tariffs.
func (c *Client) GetTariffs(ctx context.Context, token string) ([]Tariff, error) {
	var tariffs []Tariff
	if err := c.Get(ctx, EndpointTariffs, EndpointTariffs, token, &tariffs); err != nil {
		return nil, err
	}
	return tariffs, nil
}

// GetTariff fetches one tariff.
func (c *Client) GetTariff(ctx context.Context, token, tariffID string) (*Tariff, error) {
	var tariff Tariff
	if err := c.Get(ctx, EndpointTariff, TariffPath(tariffID), token, &tariff); err != nil {
		return nil, err
	}
	return &tariff, nil
}

// --- Orders ---

// CreatePayment creates a payment for a tariff and returns the provider redirect.
func (c *Client) CreatePayment(ctx context.Context, token string, req PaymentRequest) (*Payment, error) {
	var payment Payment
	if err := c.Post(ctx, EndpointCreatePayment, EndpointCreatePayment, req, token, &payment); err != nil {
		return nil, err
	}
	return &payment, nil
}

// GetOrders lists a user's orders.
func (c *Client) GetOrders(ctx context.Context, token, userID string) ([]Order, error) {
	var orders []Order
	if err := c.Get(ctx, EndpointUserOrders, UserOrdersPath(userID), token, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, token, orderID string) (*Order, error) {
	var order Order
	if err := c.Get(ctx, EndpointOrder, OrderPath(orderID), token, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelSubscription cancels the user's active subscription.
func (c *Client) CancelSubscription(ctx context.Context, token, userID string) error {
	return c.Delete(ctx, EndpointCancelSubscription, CancelSubscriptionPath(userID), token, nil)
}

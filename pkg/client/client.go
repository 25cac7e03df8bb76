// Package client is a typed Go client for the SitterHub marketplace API.
//
// A Client owns a Session. Call Session().Resolve once at startup; the login
// methods authenticate the session and persist the token in its TokenStore.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const defaultTimeout = 15 * time.Second

// Client calls the API over HTTP. Transport failures and 5xx answers count
// against a circuit breaker; 4xx answers do not.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	cb      *gobreaker.CircuitBreaker
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTokenStore sets where the session token is persisted. The default keeps
// it in memory only.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.session = NewSession(store) }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		session: NewSession(&MemoryTokenStore{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "sitterhub-api",
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError
		},
	})
	return c
}

// Session returns the client's session.
func (c *Client) Session() *Session { return c.session }

// --- Wire types ---

type Account struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ClientRegistration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	Region   string `json:"region,omitempty"`
	Children int    `json:"children"`
}

type BabysitterRegistration struct {
	Name               string   `json:"name"`
	Email              string   `json:"email"`
	Password           string   `json:"password"`
	Phone              string   `json:"phone,omitempty"`
	Region             string   `json:"region"`
	HourlyRate         float64  `json:"hourly_rate"`
	AvailableDays      []string `json:"available_days,omitempty"`
	AvailableFrom      string   `json:"available_from,omitempty"`
	AvailableTo        string   `json:"available_to,omitempty"`
	About              string   `json:"about,omitempty"`
	ProfilePhotoRef    string   `json:"profile_photo_ref,omitempty"`
	BackgroundCheckRef string   `json:"background_check_ref,omitempty"`
}

type Babysitter struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Region          string   `json:"region"`
	HourlyRate      float64  `json:"hourly_rate"`
	AvailableDays   []string `json:"available_days"`
	AvailableFrom   string   `json:"available_from"`
	AvailableTo     string   `json:"available_to"`
	About           string   `json:"about"`
	ProfilePhotoRef string   `json:"profile_photo_ref"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type BabysitterPage struct {
	Data       []Babysitter `json:"data"`
	Pagination Pagination   `json:"pagination"`
}

type SearchQuery struct {
	Region       string
	Availability string
	Page         int
	Limit        int
}

type NewBooking struct {
	BabysitterID string `json:"babysitter_id"`
	Date         string `json:"date"`
	TimeStart    string `json:"time_start"`
	TimeEnd      string `json:"time_end"`
}

// Booking mirrors the server representation. ClientID or BabysitterID is nil
// once the referenced account was deleted.
type Booking struct {
	ID           string    `json:"id"`
	ClientID     *string   `json:"client_id"`
	BabysitterID *string   `json:"babysitter_id"`
	Date         string    `json:"date"`
	TimeStart    string    `json:"time_start"`
	TimeEnd      string    `json:"time_end"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type loginResponse struct {
	Token string  `json:"token"`
	User  Account `json:"user"`
	Role  string  `json:"role"`
}

type userEnvelope struct {
	User Account `json:"user"`
}

type bookingEnvelope struct {
	Booking Booking `json:"booking"`
}

// --- Public operations ---

func (c *Client) RegisterClient(ctx context.Context, in ClientRegistration) (*Account, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/users/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) RegisterBabysitter(ctx context.Context, in BabysitterRegistration) (*Account, error) {
	var out userEnvelope
	if err := c.do(ctx, http.MethodPost, "/api/babysitters/register", "", in, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *Client) LoginClient(ctx context.Context, email, password string) (*Account, error) {
	return c.login(ctx, "/api/users/login", email, password)
}

func (c *Client) LoginBabysitter(ctx context.Context, email, password string) (*Account, error) {
	return c.login(ctx, "/api/babysitters/login", email, password)
}

func (c *Client) LoginAdmin(ctx context.Context, email, password string) (*Account, error) {
	return c.login(ctx, "/api/admin/login", email, password)
}

// Logout forgets the session token locally.
func (c *Client) Logout() error {
	return c.session.Logout()
}

func (c *Client) SearchBabysitters(ctx context.Context, q SearchQuery) (*BabysitterPage, error) {
	params := url.Values{}
	if q.Region != "" {
		params.Set("region", q.Region)
	}
	if q.Availability != "" {
		params.Set("availability", q.Availability)
	}
	if q.Page > 0 {
		params.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	path := "/api/babysitters"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var out BabysitterPage
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// --- Protected operations ---

func (c *Client) CreateBooking(ctx context.Context, in NewBooking) (*Booking, error) {
	var out bookingEnvelope
	if err := c.authed(ctx, http.MethodPost, "/api/bookings", in, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// ListMyBookings lists the bookings of the logged-in client or babysitter.
func (c *Client) ListMyBookings(ctx context.Context) ([]Booking, error) {
	if _, err := c.session.Token(); err != nil {
		return nil, err
	}
	id := url.PathEscape(c.session.AccountID())
	path := "/api/bookings/" + id
	if c.session.Role() == "babysitter" {
		path = "/api/babysitters/" + id + "/bookings"
	}

	var out []Booking
	if err := c.authed(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) UpdateBookingStatus(ctx context.Context, bookingID, status string) (*Booking, error) {
	var out bookingEnvelope
	body := map[string]string{"status": status}
	if err := c.authed(ctx, http.MethodPut, "/api/bookings/"+url.PathEscape(bookingID)+"/status", body, &out); err != nil {
		return nil, err
	}
	return &out.Booking, nil
}

// --- Plumbing ---

func (c *Client) login(ctx context.Context, path, email, password string) (*Account, error) {
	var out loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, path, "", body, &out); err != nil {
		return nil, err
	}
	if err := c.session.Authenticate(out.Token); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &out.User, nil
}

func (c *Client) authed(ctx context.Context, method, path string, in, out any) error {
	token, err := c.session.Token()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, token, in, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, token, in, out)
	})
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var envelope struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(resp.Body).Decode(&envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

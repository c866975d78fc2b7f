package scissorhands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ScissorhandsMetu/scissorhands-bot/internal/metrics"
	"github.com/ScissorhandsMetu/scissorhands-bot/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Client talks to the external ScissorHands API. It is the only component
// with network access; everything above it works on decoded models.
//
// Requests are rate limited client-side to stay polite. POST /appointments is
// never retried here: booking is not idempotent from the caller's view, and a
// blind retry could double-book.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zerolog.Logger
}

func NewClient(baseURL string, timeout time.Duration, rps float64, burst int, logger *zerolog.Logger) *Client {
	if rps <= 0 {
		rps = 10
	}
	if burst <= 0 {
		burst = 5
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}
}

// ListBarbers fetches the full barber directory, each record carrying its
// existing appointments.
func (c *Client) ListBarbers(ctx context.Context) ([]models.Barber, error) {
	var barbers []models.Barber
	if err := c.getJSON(ctx, "/barbers", &barbers); err != nil {
		return nil, err
	}
	return barbers, nil
}

// ListDistricts fetches the district filter categories.
func (c *Client) ListDistricts(ctx context.Context) ([]models.District, error) {
	var districts []models.District
	if err := c.getJSON(ctx, "/districts", &districts); err != nil {
		return nil, err
	}
	return districts, nil
}

// CreateAppointment submits a booking request exactly once. On a non-2xx
// response the returned error is an *APIError carrying the server message.
// The returned id is best-effort: zero when the API does not echo one.
func (c *Client) CreateAppointment(ctx context.Context, req models.BookingRequest) (int, error) {
	body := appointmentRequest{
		BarberID:        req.BarberID,
		CustomerName:    req.CustomerName(),
		CustomerEmail:   req.Email,
		CustomerPhone:   req.Phone,
		AppointmentDate: req.Date,
		SlotTime:        req.SlotTime,
		Service:         req.Service,
	}

	resp, err := c.doJSON(ctx, http.MethodPost, "/appointments", body)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, err
	}

	// Success envelope is undocumented; take an appointment id if present.
	var msg apiMessage
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return 0, nil
	}
	if msg.AppointmentID != 0 {
		return msg.AppointmentID, nil
	}
	return msg.ID, nil
}

// CancelAppointment asks the API to cancel an existing appointment by id.
func (c *Client) CancelAppointment(ctx context.Context, appointmentID int) error {
	resp, err := c.doJSON(ctx, http.MethodDelete, "/appointments/cancel", cancelRequest{AppointmentID: appointmentID})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return checkStatus(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.doJSON(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrInvalidResponse, path, err)
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%w: encode request: %v", ErrInvalidResponse, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(path, "transport_error", time.Since(start))
		if c.logger != nil {
			c.logger.Error().Err(err).Str("method", method).Str("path", path).Msg("API request failed")
		}
		return nil, fmt.Errorf("%w: %s %s: %v", ErrTransport, method, path, err)
	}
	metrics.ObserveAPIRequest(path, fmt.Sprintf("%d", resp.StatusCode), time.Since(start))

	return resp, nil
}

// checkStatus maps a non-2xx response to an *APIError with the server's
// message field decoded verbatim.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	if err == nil {
		var msg apiMessage
		if json.Unmarshal(raw, &msg) == nil {
			apiErr.Message = msg.Message
		}
	}
	return apiErr
}

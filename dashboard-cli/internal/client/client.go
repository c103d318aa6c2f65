package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Order mirrors the fields of the order-service response the CLI prints.
type Order struct {
	ID              string   `json:"id"`
	CustomerName    string   `json:"customer_name"`
	Address         string   `json:"address"`
	ServiceType     string   `json:"service_type"`
	Status          string   `json:"status"`
	AssignedStaffID *string  `json:"assigned_staff_id,omitempty"`
	PaymentMethod   string   `json:"payment_method,omitempty"`
	PaymentStatus   string   `json:"payment_status"`
	Amount          int64    `json:"amount"`
	CreatedAt       string   `json:"created_at"`
	AvailableEvents []string `json:"available_events,omitempty"`
}

type Views struct {
	TodayCount          int            `json:"today_count"`
	PendingCount        int            `json:"pending_count"`
	InProgressCount     int            `json:"in_progress_count"`
	CompletedTodayCount int            `json:"completed_today_count"`
	TodayEarnings       int64          `json:"today_earnings"`
	StatusCounts        map[string]int `json:"status_counts"`
	PendingOrders       []Order        `json:"pending_orders"`
	InProgressOrders    []Order        `json:"in_progress_orders"`
}

type Performance struct {
	TotalOrders       int     `json:"total_orders"`
	CompletedOrders   int     `json:"completed_orders"`
	CancelledOrders   int     `json:"cancelled_orders"`
	TotalEarnings     int64   `json:"total_earnings"`
	AverageRating     float64 `json:"average_rating"`
	ThisMonthOrders   int     `json:"this_month_orders"`
	ThisMonthEarnings int64   `json:"this_month_earnings"`
}

type Dashboard struct {
	Views       Views        `json:"views"`
	Performance *Performance `json:"performance,omitempty"`
}

type PaymentResult struct {
	Order       Order  `json:"order"`
	Reference   string `json:"reference,omitempty"`
	PaymentLink string `json:"payment_link,omitempty"`
}

type Notification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"is_read"`
	CreatedAt string `json:"created_at"`
}

type Report struct {
	ID          string `json:"id"`
	StaffID     string `json:"staff_id"`
	OrderID     string `json:"order_id,omitempty"`
	Type        string `json:"type"`
	Description string `json:"description"`
	EvidenceURL string `json:"evidence_url,omitempty"`
	Status      string `json:"status"`
	CreatedAt   string `json:"created_at"`
}

// APIError carries the status and error text returned by a service. A
// payment whose link could not be texted comes back as a 502 that still
// carries the committed payment in Payment.
type APIError struct {
	Status  int
	Message string
	Payment *PaymentResult
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

type Client struct {
	orderURL        string
	notificationURL string
	http            *http.Client
}

func New(orderURL, notificationURL string, timeout time.Duration) *Client {
	return &Client{
		orderURL:        strings.TrimRight(orderURL, "/"),
		notificationURL: strings.TrimRight(notificationURL, "/"),
		http:            &http.Client{Timeout: timeout},
	}
}

func (c *Client) ListOrders(ctx context.Context, status string) ([]Order, error) {
	var out []Order
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	err := c.do(ctx, http.MethodGet, c.orderURL+"/api/orders?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) GetOrder(ctx context.Context, id string) (*Order, error) {
	var out Order
	err := c.do(ctx, http.MethodGet, c.orderURL+"/api/orders/"+url.PathEscape(id), nil, &out)
	return &out, err
}

func (c *Client) Transition(ctx context.Context, id, event, staffID string) (*Order, error) {
	var out Order
	body := map[string]string{"event": event, "staff_id": staffID}
	err := c.do(ctx, http.MethodPost, c.orderURL+"/api/orders/"+url.PathEscape(id)+"/transition", body, &out)
	return &out, err
}

func (c *Client) RecordPayment(ctx context.Context, id, method string) (*PaymentResult, error) {
	var out PaymentResult
	err := c.do(ctx, http.MethodPost, c.orderURL+"/api/orders/"+url.PathEscape(id)+"/payment", map[string]string{"method": method}, &out)
	return &out, err
}

func (c *Client) SendMessage(ctx context.Context, id, kind string) error {
	return c.do(ctx, http.MethodPost, c.orderURL+"/api/orders/"+url.PathEscape(id)+"/messages", map[string]string{"kind": kind}, nil)
}

func (c *Client) Dashboard(ctx context.Context, staffID string) (*Dashboard, error) {
	var out Dashboard
	q := url.Values{}
	if staffID != "" {
		q.Set("staff_id", staffID)
	}
	err := c.do(ctx, http.MethodGet, c.orderURL+"/api/dashboard?"+q.Encode(), nil, &out)
	return &out, err
}

func (c *Client) Notifications(ctx context.Context, staffID string) ([]Notification, error) {
	var out []Notification
	q := url.Values{"staff_id": {staffID}}
	err := c.do(ctx, http.MethodGet, c.notificationURL+"/api/notifications?"+q.Encode(), nil, &out)
	return out, err
}

func (c *Client) MarkAllRead(ctx context.Context, staffID string) error {
	q := url.Values{"staff_id": {staffID}}
	return c.do(ctx, http.MethodPut, c.notificationURL+"/api/notifications/read-all?"+q.Encode(), nil, nil)
}

// NewReport is a violation report; EvidencePath names an optional photo
// or video to attach.
type NewReport struct {
	StaffID      string
	OrderID      string
	Type         string
	Description  string
	EvidencePath string
}

func (c *Client) SubmitReport(ctx context.Context, in NewReport) (*Report, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := map[string]string{
		"staff_id":    in.StaffID,
		"order_id":    in.OrderID,
		"type":        in.Type,
		"description": in.Description,
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := mw.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if in.EvidencePath != "" {
		if err := attachFile(mw, in.EvidencePath); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.orderURL+"/api/reports", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out Report
	if err := decode(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func attachFile(mw *multipart.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	ct := mime.TypeByExtension(filepath.Ext(path))
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(path)))
	h.Set("Content-Type", ct)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, f)
	return err
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return decode(resp, out)
}

func decode(resp *http.Response, out any) error {
	if resp.StatusCode >= 300 {
		var e struct {
			Error   string         `json:"error"`
			Payment *PaymentResult `json:"payment"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error, Payment: e.Payment}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

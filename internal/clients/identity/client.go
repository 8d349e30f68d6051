package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrDuplicateEmail means the backend already holds an account for the email.
// The workflow surfaces it as "account already exists" and creates nothing.
var ErrDuplicateEmail = errors.New("email already registered")

type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
}

func New(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type signUpResponse struct {
	ID   string `json:"id"`
	User struct {
		ID string `json:"id"`
	} `json:"user"`
	Msg       string `json:"msg"`
	ErrorCode string `json:"error_code"`
}

// SignUp creates an identity for the applicant and returns the backend's
// account id. Duplicate emails come back as ErrDuplicateEmail; everything
// else is a provisioning failure.
func (c *Client) SignUp(ctx context.Context, email, password, displayName string) (string, error) {
	if c.serviceKey == "" {
		return "", errors.New("missing identity service key")
	}

	payload := signUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]string{"display_name": displayName},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := c.baseURL + "/auth/v1/signup"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed signUpResponse
	_ = json.Unmarshal(raw, &parsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if isDuplicate(resp.StatusCode, parsed) {
			return "", ErrDuplicateEmail
		}
		if parsed.Msg != "" {
			return "", fmt.Errorf("identity signup failed: %s", parsed.Msg)
		}
		return "", fmt.Errorf("identity signup failed: status %d", resp.StatusCode)
	}

	accountID := parsed.ID
	if accountID == "" {
		accountID = parsed.User.ID
	}
	if accountID == "" {
		return "", errors.New("identity signup: no account id in response")
	}
	return accountID, nil
}

// DeleteAccount removes a provisioned identity. Used only as saga
// compensation; a 404 counts as success so retries stay idempotent.
func (c *Client) DeleteAccount(ctx context.Context, accountID string) error {
	if accountID == "" {
		return errors.New("missing account id")
	}

	url := c.baseURL + "/auth/v1/admin/users/" + accountID
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("identity delete failed: status %d", resp.StatusCode)
	}
	return nil
}

func isDuplicate(status int, parsed signUpResponse) bool {
	if status == http.StatusConflict || status == http.StatusUnprocessableEntity {
		if parsed.ErrorCode == "user_already_exists" {
			return true
		}
		if strings.Contains(strings.ToLower(parsed.Msg), "already registered") {
			return true
		}
		if strings.Contains(strings.ToLower(parsed.Msg), "already exists") {
			return true
		}
	}
	return false
}

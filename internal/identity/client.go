package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/quotedesk/quotation-api/internal/config"
)

// Client provisions user accounts with the Clerk identity provider
type Client struct {
	httpClient *http.Client
	config     *config.IdentityConfig
}

// CreateUserParams is the account to provision
type CreateUserParams struct {
	Name     string
	Email    string
	Password string
}

type createUserRequest struct {
	EmailAddress []string `json:"email_address"`
	Password     string   `json:"password"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name,omitempty"`
}

type createUserResponse struct {
	ID string `json:"id"`
}

// NewClient creates a new identity provider client
func NewClient(cfg *config.IdentityConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		config: cfg,
	}
}

// CreateUser registers the account with the provider and returns its id
func (c *Client) CreateUser(ctx context.Context, params CreateUserParams) (string, error) {
	if c.config.SecretKey == "" {
		return "", fmt.Errorf("identity provider secret key not configured")
	}

	firstName, lastName := splitName(params.Name)
	body, err := json.Marshal(createUserRequest{
		EmailAddress: []string{params.Email},
		Password:     params.Password,
		FirstName:    firstName,
		LastName:     lastName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode user payload: %w", err)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/users"
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call identity provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorResp struct {
			Errors []struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"errors"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errorResp); err == nil && len(errorResp.Errors) > 0 {
			return "", fmt.Errorf("identity provider error (%d): %s - %s",
				resp.StatusCode, errorResp.Errors[0].Code, errorResp.Errors[0].Message)
		}
		return "", fmt.Errorf("identity provider returned status %d", resp.StatusCode)
	}

	var userResp createUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&userResp); err != nil {
		return "", fmt.Errorf("failed to decode identity provider response: %w", err)
	}
	if userResp.ID == "" {
		return "", fmt.Errorf("identity provider returned no user id")
	}

	return userResp.ID, nil
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	if len(parts) == 1 {
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

package infrastructures

import (
	"fmt"
	"net/http"
	"strings"
)

type ImageClient struct {
	HTTPClient *http.Client
	Config     ImageConfig
}

// NewImageClient creates the HTTP client for the image synthesis service
func NewImageClient(cfg *AppConfig) *ImageClient {
	return &ImageClient{
		// The service applies its own per-call deadline; this is the hard ceiling.
		HTTPClient: &http.Client{
			Timeout: cfg.Image.Timeout + cfg.Image.Timeout/2,
		},
		Config: cfg.Image,
	}
}

// GetFullURL constructs the full URL for an endpoint
func (c *ImageClient) GetFullURL(endpoint string) string {
	return fmt.Sprintf("%s%s", strings.TrimRight(c.Config.BaseURL, "/"), endpoint)
}

// GetAuthHeader returns the properly formatted authorization header
func (c *ImageClient) GetAuthHeader() string {
	return "Bearer " + c.Config.APIKey
}

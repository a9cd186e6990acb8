package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/safatanc/checkin-core/internal/app/models"
	"github.com/safatanc/checkin-core/internal/infrastructures"
)

// ImageGenerator produces an image from a prompt conditioned on reference images.
type ImageGenerator interface {
	GenerateImageWithReference(ctx context.Context, prompt string, reference models.ImageRef, options models.ImageGenerationOptions) (*models.ImageGenerationResult, error)
}

type imageReferencePayload struct {
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

type generateImageRequest struct {
	Prompt          string                  `json:"prompt"`
	ReferenceImages []imageReferencePayload `json:"reference_images"`
	AspectRatio     string                  `json:"aspect_ratio,omitempty"`
}

type generateImageResponse struct {
	Success   bool   `json:"success"`
	ImageData string `json:"image_data"`
	MimeType  string `json:"mime_type"`
	Error     string `json:"error"`
}

type ImageService struct {
	client *infrastructures.ImageClient
}

func NewImageService(client *infrastructures.ImageClient) *ImageService {
	return &ImageService{
		client: client,
	}
}

// GenerateImageWithReference calls the synthesis service. Transport failures are
// returned as errors; a reachable service that refuses is reported in the result.
func (s *ImageService) GenerateImageWithReference(ctx context.Context, prompt string, reference models.ImageRef, options models.ImageGenerationOptions) (*models.ImageGenerationResult, error) {
	payload := generateImageRequest{
		Prompt:      prompt,
		AspectRatio: options.AspectRatio,
		ReferenceImages: []imageReferencePayload{{
			MimeType: reference.MimeType,
			Data:     base64.StdEncoding.EncodeToString(reference.Data),
		}},
	}
	for _, extra := range options.ExtraReferences {
		payload.ReferenceImages = append(payload.ReferenceImages, imageReferencePayload{
			MimeType: extra.MimeType,
			Data:     base64.StdEncoding.EncodeToString(extra.Data),
		})
	}

	// Convert to JSON
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	// Create HTTP request
	url := s.client.GetFullURL("/v1/images/generate-with-reference")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", s.client.GetAuthHeader())
	req.Header.Set("Content-Type", "application/json")

	// Send request
	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Read response
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var imageResp generateImageResponse
	parseErr := json.Unmarshal(body, &imageResp)

	// Check for errors
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		message := fmt.Sprintf("image service error: status %d", resp.StatusCode)
		if parseErr == nil && imageResp.Error != "" {
			message = imageResp.Error
		}
		return &models.ImageGenerationResult{Success: false, Error: message}, nil
	}
	if parseErr != nil {
		return nil, fmt.Errorf("failed to parse response: %w", parseErr)
	}

	result := &models.ImageGenerationResult{
		Success:  imageResp.Success,
		MimeType: imageResp.MimeType,
		Error:    imageResp.Error,
	}
	if imageResp.ImageData != "" {
		data, err := base64.StdEncoding.DecodeString(imageResp.ImageData)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		result.ImageData = data
	}

	return result, nil
}

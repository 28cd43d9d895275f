package imagehost

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"hospital-portal/config"
	"hospital-portal/internal/domain/apperror"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest image accepted for upload (5 MB).
const MaxImageSize = 5 * 1024 * 1024

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/webp"}

// Uploader publishes an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, data []byte) (string, error)
}

// ValidateImage checks the sniffed content type and size of an image.
func ValidateImage(data []byte) error {
	if len(data) == 0 {
		return apperror.Validation("image is empty")
	}
	if len(data) > MaxImageSize {
		return apperror.Validation("image must be 5 MB or smaller")
	}
	detected := mimetype.Detect(data)
	for _, allowed := range allowedImageTypes {
		if detected.Is(allowed) {
			return nil
		}
	}
	return apperror.Validation(fmt.Sprintf("unsupported image type %s, use JPEG, PNG or WebP", detected.String()))
}

// CloudinaryClient performs unsigned uploads against an upload preset.
type CloudinaryClient struct {
	httpClient *http.Client
	baseURL    string
	cloudName  string
	preset     string
}

func NewCloudinaryClient(cfg config.ImageHostConfig) *CloudinaryClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &CloudinaryClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		cloudName:  cfg.CloudName,
		preset:     cfg.UploadPreset,
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *CloudinaryClient) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ValidateImage(data); err != nil {
		return "", err
	}
	if c.cloudName == "" || c.preset == "" {
		return "", apperror.Storage("image host is not configured", nil)
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := writer.WriteField("upload_preset", c.preset); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperror.Storage("image upload failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperror.Storage("image upload failed", err)
	}

	var result uploadResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", apperror.Storage("image host returned an unreadable response", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		message := resp.Status
		if result.Error != nil && result.Error.Message != "" {
			message = result.Error.Message
		}
		return "", apperror.Storage("image upload failed", fmt.Errorf("image host: %s", message))
	}
	if result.SecureURL == "" {
		return "", apperror.Storage("image host returned no URL", nil)
	}

	return result.SecureURL, nil
}

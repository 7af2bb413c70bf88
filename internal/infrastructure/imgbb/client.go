package imgbb

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

	"github.com/dwisurvei/webgis-seismik/internal/application"
)

// DefaultEndpoint is the ImgBB upload API.
const DefaultEndpoint = "https://api.imgbb.com/1/upload"

// uploadResponse is the strict shape expected from the image host. Any
// deviation is treated as an upload failure rather than guessed at.
type uploadResponse struct {
	Success bool `json:"success"`
	Data    struct {
		URL string `json:"url"`
	} `json:"data"`
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
	Status int `json:"status"`
}

// Client uploads raw image bytes and returns a durable public URL. The
// created object never expires and cannot be deleted through this client.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
}

func NewClient(endpoint, apiKey string, timeout time.Duration) *Client {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(apiKey),
	}
}

// Upload posts the image to the host. Without a configured API key it
// fails immediately, before any network call. Every failure wraps
// application.ErrUploadFailed; the submission workflow treats that as a
// warning, never a hard stop.
func (c *Client) Upload(ctx context.Context, data []byte) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("%w: api key belum dikonfigurasi", application.ErrUploadFailed)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: berkas foto kosong", application.ErrUploadFailed)
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("key", c.apiKey); err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}
	// expiration=0 keeps the hosted object durable.
	if err := writer.WriteField("expiration", "0"); err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}
	part, err := writer.CreateFormFile("image", "foto")
	if err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}
	defer res.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: %v", application.ErrUploadFailed, err)
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return "", fmt.Errorf("%w: status=%d body=%s", application.ErrUploadFailed, res.StatusCode, strings.TrimSpace(string(payload)))
	}

	var decoded uploadResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return "", fmt.Errorf("%w: respons tidak valid: %v", application.ErrUploadFailed, err)
	}
	if !decoded.Success {
		message := strings.TrimSpace(decoded.Error.Message)
		if message == "" {
			message = "host gambar menolak unggahan"
		}
		return "", fmt.Errorf("%w: %s", application.ErrUploadFailed, message)
	}
	url := strings.TrimSpace(decoded.Data.URL)
	if url == "" {
		return "", fmt.Errorf("%w: respons tanpa URL", application.ErrUploadFailed)
	}

	return url, nil
}

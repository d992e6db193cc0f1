package yadisk

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"vkbackup/pkg/config"
	"vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
)

// BaseURL is the REST API root of Yandex.Disk
const BaseURL = "https://cloud-api.yandex.net/v1/disk"

// apiError is the error body Yandex.Disk returns on failures
type apiError struct {
	Message     string `json:"message"`
	Description string `json:"description"`
	Error       string `json:"error"`
}

// Client talks to the Yandex.Disk REST API with an OAuth token
type Client struct {
	httpClient *http.Client
	tokens     oauth2.TokenSource
	baseURL    string
	logger     logger.Logger
}

// NewClient creates a Yandex.Disk client. Every request carries
// "Authorization: OAuth <token>". A nil log uses the global logger.
func NewClient(cfg config.YandexConfig, token string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	baseURL := cfg.APIURL
	if baseURL == "" {
		baseURL = BaseURL
	}

	c := &Client{
		tokens:  oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "OAuth"}),
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log.WithField("component", "yadisk"),
	}
	c.SetTransport(nil)
	return c
}

// SetTransport replaces the underlying round tripper, keeping the
// authorization header. nil restores http.DefaultTransport.
func (c *Client) SetTransport(base http.RoundTripper) {
	c.httpClient = &http.Client{
		Transport: &oauth2.Transport{Source: c.tokens, Base: base},
	}
}

// CreateFolder creates a folder. It reports whether the folder was
// created; an existing folder (409) is not an error.
func (c *Client) CreateFolder(path string) (bool, error) {
	params := url.Values{}
	params.Set("path", path)

	resp, err := c.do(http.MethodPut, "/resources", params)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		c.logger.WithField("path", path).Info("Folder created")
		return true, nil
	case http.StatusConflict:
		c.logger.WithField("path", path).Info("Folder already exists")
		return false, nil
	default:
		err := c.responseError(resp)
		c.logger.WithError(err).WithField("path", path).Error("Failed to create folder")
		return false, err
	}
}

// EnsurePath creates every segment of path in order, so that
// "a/b/c" creates a, a/b and a/b/c
func (c *Client) EnsurePath(path string) error {
	var current string
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment == "" {
			continue
		}
		if current == "" {
			current = segment
		} else {
			current += "/" + segment
		}
		if _, err := c.CreateFolder(current); err != nil {
			return fmt.Errorf("failed to create folder %s: %w", current, err)
		}
	}
	return nil
}

// UploadFromURL asks Yandex.Disk to fetch remoteURL into path. Any 2xx
// (normally 202 Accepted) is success; the transfer itself happens
// server-side.
func (c *Client) UploadFromURL(remoteURL, path string) error {
	params := url.Values{}
	params.Set("path", path)
	params.Set("url", remoteURL)

	resp, err := c.do(http.MethodPost, "/resources/upload", params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := c.responseError(resp)
		c.logger.WithError(err).WithField("path", path).Error("Failed to upload file")
		return err
	}

	c.logger.WithField("path", path).Info("Upload accepted")
	return nil
}

func (c *Client) do(method, endpoint string, params url.Values) (*http.Response, error) {
	req, err := http.NewRequest(method, c.baseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.New(errors.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		c.logger.ErrorWithFields("Yandex.Disk request failed", map[string]interface{}{
			"method":   method,
			"endpoint": endpoint,
			"error":    err.Error(),
		})
		return nil, errors.New(errors.ErrorTypeNetwork, 0, "network error: %v", err)
	}

	logger.LogRequest(c.logger, method, req.URL.String(), resp.StatusCode, float64(time.Since(start).Milliseconds()))
	return resp, nil
}

// responseError builds a typed error from a failed response, using the
// API error body when it can be decoded
func (c *Client) responseError(resp *http.Response) error {
	errType := errors.FromStatusCode(resp.StatusCode)
	if errType == errors.ErrorTypeUnknown {
		errType = errors.ErrorTypeAPI
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && (apiErr.Message != "" || apiErr.Error != "") {
		msg := apiErr.Message
		if msg == "" {
			msg = apiErr.Description
		}
		return errors.New(errType, resp.StatusCode, "%s: %s", apiErr.Error, msg)
	}

	return errors.New(errType, resp.StatusCode, "unexpected status code %d", resp.StatusCode)
}

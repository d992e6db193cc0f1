package storage

import (
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
)

// Fetcher downloads photo bytes over HTTP
type Fetcher struct {
	httpClient *http.Client
	logger     logger.Logger
}

// NewFetcher creates a fetcher. A nil client uses a default http.Client.
func NewFetcher(httpClient *http.Client, log logger.Logger) *Fetcher {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Fetcher{httpClient: httpClient, logger: log}
}

// Open starts downloading rawURL and returns the body with its content
// length (-1 when unknown). The caller must close the body.
func (f *Fetcher) Open(rawURL string) (io.ReadCloser, int64, error) {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, errors.New(errors.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}

	start := time.Now()
	resp, err := f.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		f.logger.ErrorWithFields("Photo download failed", map[string]interface{}{
			"url":   rawURL,
			"error": err.Error(),
		})
		return nil, 0, errors.New(errors.ErrorTypeNetwork, 0, "failed to download %s: %v", rawURL, err)
	}

	logger.LogRequest(f.logger, req.Method, rawURL, resp.StatusCode, float64(time.Since(start).Milliseconds()))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, 0, errors.New(errors.FromStatusCode(resp.StatusCode), resp.StatusCode,
			"unexpected status code %d downloading %s", resp.StatusCode, rawURL)
	}

	return resp.Body, resp.ContentLength, nil
}

package vk

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"vkbackup/pkg/config"
	"vkbackup/pkg/errors"
	"vkbackup/pkg/logger"
)

// Client is a VK API client bound to one access token
type Client struct {
	httpClient *http.Client
	baseURL    string
	version    string
	token      string
	pageSize   int
	logger     logger.Logger
}

// NewClient creates a VK API client. A nil log uses the global logger.
func NewClient(cfg config.VKConfig, token string, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	c := &Client{
		httpClient: &http.Client{},
		baseURL:    cfg.APIURL,
		version:    cfg.APIVersion,
		token:      token,
		pageSize:   clampCount(cfg.PageSize),
		logger:     log.WithField("component", "vk"),
	}
	if c.baseURL == "" {
		c.baseURL = BaseURL
	}
	if c.version == "" {
		c.version = APIVersion
	}
	if cfg.PageSize == 0 {
		c.pageSize = MaxPhotosPerPage
	}
	return c
}

// call invokes an API method and decodes the "response" member into target
func (c *Client) call(method string, params url.Values, target interface{}) error {
	if params == nil {
		params = url.Values{}
	}
	params.Set("access_token", c.token)
	params.Set("v", c.version)

	req, err := http.NewRequest(http.MethodGet, methodURL(c.baseURL, method, params), nil)
	if err != nil {
		return errors.New(errors.ErrorTypeUnknown, 0, "failed to create request: %v", err)
	}

	// The URL carries the token, so only the method name is logged.
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		c.logger.ErrorWithFields("VK request failed", map[string]interface{}{
			"method":   method,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return errors.New(errors.ErrorTypeNetwork, 0, "network error: %v", err)
	}
	defer resp.Body.Close()

	c.logger.DebugWithFields("VK request completed", map[string]interface{}{
		"method":   method,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	if err := c.checkResponseStatus(method, resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.New(errors.ErrorTypeNetwork, resp.StatusCode, "failed to read response body: %v", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return c.parseError(method, resp.StatusCode, body, err)
	}

	if env.Error != nil {
		return c.apiError(method, resp.StatusCode, env.Error)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(env.Response, target); err != nil {
		return c.parseError(method, resp.StatusCode, env.Response, err)
	}
	return nil
}

// checkResponseStatus maps non-2xx statuses to typed errors
func (c *Client) checkResponseStatus(method string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	errType := errors.FromStatusCode(resp.StatusCode)
	c.logger.WarnWithFields("VK returned an error status", map[string]interface{}{
		"method": method,
		"status": resp.StatusCode,
		"type":   string(errType),
	})
	return errors.New(errType, resp.StatusCode, "unexpected status code %d for %s", resp.StatusCode, method)
}

func (c *Client) parseError(method string, status int, body []byte, err error) error {
	bodyPreview := string(body)
	if len(bodyPreview) > 200 {
		bodyPreview = bodyPreview[:200] + "..."
	}

	c.logger.ErrorWithFields("failed to parse VK response", map[string]interface{}{
		"method":       method,
		"status":       status,
		"error":        err.Error(),
		"body_preview": bodyPreview,
	})
	return errors.New(errors.ErrorTypeParsing, status, "failed to parse %s response: %v", method, err)
}

func (c *Client) apiError(method string, status int, apiErr *apiError) error {
	errType := errors.ErrorTypeAPI
	switch {
	case isAccessDeniedCode(apiErr.Code):
		errType = errors.ErrorTypeAccessDenied
	case apiErr.Code == CodeAuthFailed:
		errType = errors.ErrorTypeAuth
	}

	return &errors.Error{
		Type:    errType,
		Message: fmt.Sprintf("%s: %s", method, apiErr.Message),
		Code:    status,
		APICode: apiErr.Code,
	}
}

// ListFriends returns the token owner's friends ordered by name
func (c *Client) ListFriends() ([]Friend, error) {
	params := url.Values{}
	params.Set("order", "name")
	params.Set("fields", "id,first_name,last_name")

	var resp itemsResponse[Friend]
	if err := c.call(MethodFriendsGet, params, &resp); err != nil {
		c.logger.WithError(err).Error("Failed to list friends")
		return nil, err
	}

	c.logger.DebugWithFields("Friends listed", map[string]interface{}{
		"count": len(resp.Items),
	})
	return resp.Items, nil
}

// GetUser resolves a numeric id or screen name. An empty ref returns
// the token owner.
func (c *Client) GetUser(ref string) (*User, error) {
	params := url.Values{}
	params.Set("fields", "screen_name")
	if ref != "" {
		params.Set("user_ids", ref)
	}

	var users []User
	if err := c.call(MethodUsersGet, params, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, errors.New(errors.ErrorTypeNotFound, 0, "user %q not found", ref)
	}
	return &users[0], nil
}

// ListAlbums returns the owner's albums including the system ones
func (c *Client) ListAlbums(ownerID int64) ([]Album, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("need_system", "1")

	var resp itemsResponse[Album]
	if err := c.call(MethodPhotosGetAlbums, params, &resp); err != nil {
		c.logger.WithError(err).WithField("owner_id", ownerID).Error("Failed to list albums")
		return nil, err
	}
	return resp.Items, nil
}

// GetPhotos returns the first count photos of an album. count is
// clamped to [1, MaxPhotosPerPage].
func (c *Client) GetPhotos(ownerID int64, album AlbumRef, count int) ([]Photo, error) {
	return c.photosPage(ownerID, album, clampCount(count), 0)
}

// GetAllPhotos walks the album with offset pagination. It stops as soon
// as a page comes back shorter than the page size. An album the token
// owner may not see yields no photos rather than an error.
func (c *Client) GetAllPhotos(ownerID int64, album AlbumRef) ([]Photo, error) {
	var all []Photo
	offset := 0

	for {
		page, err := c.photosPage(ownerID, album, c.pageSize, offset)
		if err != nil {
			if errors.IsAccessDenied(err) {
				c.logger.WarnWithFields("No access to album", map[string]interface{}{
					"owner_id": ownerID,
					"album":    album.String(),
				})
				return []Photo{}, nil
			}
			return nil, err
		}

		all = append(all, page...)
		if len(page) < c.pageSize {
			break
		}
		offset += len(page)
	}

	c.logger.DebugWithFields("Album photos fetched", map[string]interface{}{
		"owner_id": ownerID,
		"album":    album.String(),
		"count":    len(all),
	})
	return all, nil
}

func (c *Client) photosPage(ownerID int64, album AlbumRef, count, offset int) ([]Photo, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("album_id", album.String())
	params.Set("extended", "1")
	params.Set("photo_sizes", "1")
	params.Set("count", strconv.Itoa(count))
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}

	var resp itemsResponse[Photo]
	if err := c.call(MethodPhotosGet, params, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// CheckAlbumAccess reports whether the token owner can see an album.
// Access-denied answers and transport failures both yield false.
func (c *Client) CheckAlbumAccess(ownerID int64, albumID int64) (bool, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("album_ids", strconv.FormatInt(albumID, 10))

	var resp itemsResponse[Album]
	err := c.call(MethodPhotosGetAlbums, params, &resp)
	switch {
	case err == nil:
		return len(resp.Items) > 0, nil
	case errors.IsAccessDenied(err):
		return false, nil
	case errors.TypeOf(err) == errors.ErrorTypeAPI:
		return false, err
	default:
		// the album is treated as unreadable when the check itself fails
		c.logger.WithError(err).WithFields(map[string]interface{}{
			"owner_id": ownerID,
			"album_id": albumID,
		}).Error("Failed to check album access")
		return false, nil
	}
}

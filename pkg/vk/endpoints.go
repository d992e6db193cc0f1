package vk

import (
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL of the VK API
	BaseURL = "https://api.vk.com/method"

	// APIVersion is the API version requested by default
	APIVersion = "5.131"

	// MaxPhotosPerPage is the largest count photos.get accepts
	MaxPhotosPerPage = 1000
)

// API methods
const (
	MethodFriendsGet      = "friends.get"
	MethodUsersGet        = "users.get"
	MethodPhotosGet       = "photos.get"
	MethodPhotosGetAlbums = "photos.getAlbums"
)

// Error codes that mean the token owner may not see the resource
const (
	CodeAccessDenied      = 15
	CodePrivateProfile    = 30
	CodeAlbumAccessDenied = 200
)

// Other notable error codes
const (
	CodeAuthFailed = 5
)

// methodURL builds the request URL for method; params must already
// contain the token and version
func methodURL(baseURL, method string, params url.Values) string {
	return strings.TrimRight(baseURL, "/") + "/" + method + "?" + params.Encode()
}

// clampCount keeps a photos.get count inside [1, MaxPhotosPerPage]
func clampCount(count int) int {
	if count < 1 {
		return 1
	}
	if count > MaxPhotosPerPage {
		return MaxPhotosPerPage
	}
	return count
}

func isAccessDeniedCode(code int) bool {
	switch code {
	case CodeAccessDenied, CodePrivateProfile, CodeAlbumAccessDenied:
		return true
	default:
		return false
	}
}

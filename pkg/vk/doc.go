// Package vk provides a client for the subset of the VK API used to back up photos.
//
// Every call is a GET to https://api.vk.com/method/<name> with the access
// token and API version as query parameters. Responses are decoded from the
// {"response": ...} / {"error": ...} envelope; API errors come back as
// *errors.Error with APICode set, and the access-denied codes (15, 30, 200)
// are typed so callers can use errors.IsAccessDenied.
//
// Example usage:
//
//	client := vk.NewClient(cfg.VK, cfg.VKToken, log)
//
//	friends, err := client.ListFriends()
//	if err != nil {
//	    return err
//	}
//
//	photos, err := client.GetAllPhotos(friends[0].ID, vk.AlbumWall)
package vk

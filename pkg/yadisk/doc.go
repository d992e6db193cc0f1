// Package yadisk is a minimal Yandex.Disk REST client: folder creation and
// server-side upload from a public URL. Authorization uses a static
// oauth2 token source with the "OAuth" token type.
package yadisk

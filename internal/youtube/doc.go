// Package youtube is a small client for the YouTube Data API v3 covering the
// four read-only resources channel collection needs: channels (to resolve a
// channel's uploads playlist), playlistItems (paginated video ids), videos
// (title and category id) and videoCategories (category names).
//
// Requests are paced with a token-bucket limiter. An explicit quota signal
// from the API is reported with services.ErrQuota so callers can pause
// instead of failing.
package youtube

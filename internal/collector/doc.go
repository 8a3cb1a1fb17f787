// Package collector walks one channel's uploads page by page and turns every
// page into transcript records.
//
// A Collector is a small state machine:
//
//	NotStarted -> Active -> {PageFetched, Done, QuotaPaused, Failed}
//
// PageFetched loops back through Next until the playlist runs out (Done), the
// API reports an exhausted quota (QuotaPaused) or an unexpected transcript
// error stops the channel (Failed). The collector never touches disk; the
// caller persists every returned page.
package collector

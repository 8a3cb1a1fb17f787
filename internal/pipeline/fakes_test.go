package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"anglicorpus/internal/collector"
	"anglicorpus/internal/services"
	"anglicorpus/internal/transcript"
	"anglicorpus/internal/youtube"
)

// fakePlatform serves channels whose pages are listed per channel id. Page
// tokens are "<channel>-p<n>"; the first page has the empty token.
type fakePlatform struct {
	pages     map[string][][]string
	quotaAt   map[string]string
	failVideo string
	// offline counts the remaining transport failures per channel.
	offline    map[string]int
	throttled  string
	requested  []string
	transcript map[string]string
}

func newFakePlatform() *fakePlatform {
	return &fakePlatform{
		pages:      make(map[string][][]string),
		quotaAt:    make(map[string]string),
		offline:    make(map[string]int),
		transcript: make(map[string]string),
	}
}

func (f *fakePlatform) addChannel(channelID string, pages ...[]string) {
	f.pages[channelID] = pages
	for _, page := range pages {
		for _, videoID := range page {
			f.transcript[videoID] = "Transkript " + videoID
		}
	}
}

func (f *fakePlatform) UploadsPlaylist(_ context.Context, channelID string) (string, error) {
	if f.offline[channelID] > 0 {
		f.offline[channelID]--
		return "", services.Wrap(services.ErrTransient, "youtube", "channels", "request failed", fmt.Errorf("dial tcp: connection refused"))
	}
	if _, ok := f.pages[channelID]; !ok {
		return "", services.Wrap(services.ErrNotFound, "youtube", "channels", "channel not found", nil)
	}
	return "UU:" + channelID, nil
}

func (f *fakePlatform) PlaylistPage(_ context.Context, playlistID, pageToken string) (youtube.Page, error) {
	channelID := strings.TrimPrefix(playlistID, "UU:")
	f.requested = append(f.requested, channelID+"@"+pageToken)
	if token, ok := f.quotaAt[channelID]; ok && token == pageToken {
		return youtube.Page{}, services.Wrap(services.ErrQuota, "youtube", "playlistItems", "quotaExceeded", nil)
	}
	index := 0
	if pageToken != "" {
		if _, err := fmt.Sscanf(strings.TrimPrefix(pageToken, channelID+"-p"), "%d", &index); err != nil {
			return youtube.Page{}, fmt.Errorf("bad token %q", pageToken)
		}
	}
	pages := f.pages[channelID]
	if index >= len(pages) {
		return youtube.Page{}, fmt.Errorf("token %q past end", pageToken)
	}
	page := youtube.Page{VideoIDs: pages[index]}
	if index+1 < len(pages) {
		page.NextPageToken = fmt.Sprintf("%s-p%d", channelID, index+1)
	}
	return page, nil
}

func (f *fakePlatform) Videos(_ context.Context, ids []string) ([]youtube.Video, error) {
	out := make([]youtube.Video, 0, len(ids))
	for _, id := range ids {
		out = append(out, youtube.Video{ID: id, Title: "Titel " + id, CategoryID: "22"})
	}
	return out, nil
}

func (f *fakePlatform) CategoryName(context.Context, string) (string, error) {
	return "People & Blogs", nil
}

func (f *fakePlatform) Fetch(_ context.Context, videoID, _ string) ([]string, error) {
	if videoID == f.throttled {
		return nil, services.Wrap(services.ErrQuota, "transcript", "request", "HTTP 429 Too Many Requests", nil)
	}
	if videoID == f.failVideo {
		return nil, fmt.Errorf("connection reset by peer")
	}
	text, ok := f.transcript[videoID]
	if !ok {
		return nil, transcript.ErrNoTranscript
	}
	return []string{text}, nil
}

func noSleep(context.Context, time.Duration) error { return nil }

func testCollectorOptions() collector.Options {
	return collector.Options{Language: "de", Sleep: noSleep}
}

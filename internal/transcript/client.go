package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/text/language"

	"anglicorpus/internal/services"
	"anglicorpus/internal/textutil"
)

const (
	defaultBaseURL     = "https://www.youtube.com"
	defaultHTTPTimeout = 30 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	maxPageBytes       = 4 << 20
	maxTimedTextBytes  = 2 << 20
)

var (
	// ErrTranscriptsDisabled means the video exposes no captions at all.
	ErrTranscriptsDisabled = errors.New("transcripts disabled")
	// ErrNoTranscript means captions exist but none in the requested language.
	ErrNoTranscript = errors.New("no transcript in requested language")
	// ErrTransientParse marks a malformed or truncated response that is worth
	// one retry.
	ErrTransientParse = errors.New("transient transcript parse failure")
)

var playerResponseMarker = []byte("ytInitialPlayerResponse = ")

// Config describes the transcript client configuration.
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
}

// Client fetches caption fragments from the video platform.
type Client struct {
	baseURL   *url.URL
	userAgent string
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("transcript: parse base url: %w", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &Client{baseURL: baseURL, userAgent: userAgent, http: client}, nil
}

// Fetch returns the caption fragments of videoID in the language lang, in
// playback order. Markup and entities are removed from every fragment and
// blank fragments are dropped.
func (c *Client) Fetch(ctx context.Context, videoID, lang string) ([]string, error) {
	if c == nil {
		return nil, errors.New("transcript: client is nil")
	}
	player, err := c.playerResponse(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return nil, fmt.Errorf("transcript: video %s: %w", videoID, ErrTranscriptsDisabled)
	}
	track, ok := pickTrack(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, lang)
	if !ok {
		return nil, fmt.Errorf("transcript: video %s: language %q: %w", videoID, lang, ErrNoTranscript)
	}
	return c.timedText(ctx, videoID, track.BaseURL)
}

func (c *Client) playerResponse(ctx context.Context, videoID string) (playerResponse, error) {
	endpoint := c.baseURL.JoinPath("watch")
	params := url.Values{}
	params.Set("v", videoID)
	endpoint.RawQuery = params.Encode()

	body, err := c.get(ctx, endpoint.String(), maxPageBytes)
	if err != nil {
		return playerResponse{}, fmt.Errorf("transcript: watch page %s: %w", videoID, err)
	}

	start := bytes.Index(body, playerResponseMarker)
	if start < 0 {
		return playerResponse{}, fmt.Errorf("transcript: video %s: player response not found: %w", videoID, ErrTransientParse)
	}
	// The decoder stops after the first complete JSON value, so the script
	// text that follows the object is never read.
	decoder := json.NewDecoder(bytes.NewReader(body[start+len(playerResponseMarker):]))
	var player playerResponse
	if err := decoder.Decode(&player); err != nil {
		return playerResponse{}, fmt.Errorf("transcript: video %s: decode player response: %w: %w", videoID, ErrTransientParse, err)
	}
	return player, nil
}

func (c *Client) timedText(ctx context.Context, videoID, rawURL string) ([]string, error) {
	target, err := c.baseURL.Parse(strings.ReplaceAll(rawURL, "&fmt=srv3", ""))
	if err != nil {
		return nil, fmt.Errorf("transcript: video %s: parse caption url: %w", videoID, err)
	}
	body, err := c.get(ctx, target.String(), maxTimedTextBytes)
	if err != nil {
		return nil, fmt.Errorf("transcript: timed text %s: %w", videoID, err)
	}

	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("transcript: video %s: parse timed text: %w: %w", videoID, ErrTransientParse, err)
	}
	fragments := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if text := textutil.StripMarkup(line.Text); text != "" {
			fragments = append(fragments, text)
		}
	}
	return fragments, nil
}

func (c *Client) get(ctx context.Context, target string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9,en;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcript", "request", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, services.Wrap(services.ErrQuota, "transcript", "request", fmt.Sprintf("HTTP %s: caption host is throttling requests", resp.Status), nil)
	}
	if resp.StatusCode >= 400 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return nil, services.Wrap(services.ErrExternal, "transcript", "request", fmt.Sprintf("HTTP %s: %s", resp.Status, strings.TrimSpace(string(snippet))), nil)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "transcript", "read body", "", err)
	}
	return body, nil
}

// pickTrack prefers a manually created track over an auto-generated one.
// Regional variants match their base language (de-AT for de).
func pickTrack(tracks []captionTrack, lang string) (captionTrack, bool) {
	want := baseLanguage(lang)
	var generated *captionTrack
	for i := range tracks {
		if baseLanguage(tracks[i].LanguageCode) != want {
			continue
		}
		if tracks[i].Kind != "asr" {
			return tracks[i], true
		}
		if generated == nil {
			generated = &tracks[i]
		}
	}
	if generated != nil {
		return *generated, true
	}
	return captionTrack{}, false
}

func baseLanguage(code string) string {
	tag, err := language.Parse(strings.TrimSpace(code))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(code))
	}
	base, _ := tag.Base()
	return base.String()
}

type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"` // "asr" = auto-generated
}

type timedTextDocument struct {
	Lines []timedTextLine `xml:"text"`
}

type timedTextLine struct {
	Text string `xml:",chardata"`
}

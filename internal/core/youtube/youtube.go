package youtube

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:m\.)?youtube\.com/watch\?.*v=([a-zA-Z0-9_-]{11})`),
}

var playlistPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[?&]list=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`playlist\?list=([a-zA-Z0-9_-]+)`),
	regexp.MustCompile(`/playlist/([a-zA-Z0-9_-]+)`),
}

// ExtractVideoID pulls the 11-character video ID out of any of the common
// YouTube URL shapes.
func ExtractVideoID(rawURL string) (string, bool) {
	for _, p := range videoPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// ExtractPlaylistID pulls the playlist ID out of a YouTube playlist URL.
func ExtractPlaylistID(rawURL string) (string, bool) {
	for _, p := range playlistPatterns {
		if m := p.FindStringSubmatch(rawURL); m != nil {
			return m[1], true
		}
	}
	return "", false
}

// VideoInfo is the metadata we can fetch without an API key.
type VideoInfo struct {
	Title    string
	Author   string
	VideoURL string
}

// Client fetches video metadata and transcripts over plain HTTP. Base URLs
// are fields so tests can point them at a local server.
type Client struct {
	OEmbedBase    string
	TimedTextBase string
	PlaylistBase  string
	hc            *http.Client
}

func NewClient() *Client {
	return &Client{
		OEmbedBase:    "https://www.youtube.com/oembed",
		TimedTextBase: "https://video.google.com/timedtext",
		PlaylistBase:  "https://www.youtube.com/playlist",
		hc:            &http.Client{Timeout: 15 * time.Second},
	}
}

type oembedResp struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// Info fetches title and uploader for a video via the oEmbed endpoint.
func (c *Client) Info(ctx context.Context, videoID string) (VideoInfo, error) {
	videoURL := "https://www.youtube.com/watch?v=" + videoID
	u := c.OEmbedBase + "?format=json&url=" + url.QueryEscape(videoURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return VideoInfo{}, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("video info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return VideoInfo{}, fmt.Errorf("video info: status %d", resp.StatusCode)
	}
	var oe oembedResp
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return VideoInfo{}, fmt.Errorf("video info: %w", err)
	}
	return VideoInfo{Title: oe.Title, Author: oe.AuthorName, VideoURL: videoURL}, nil
}

// PlaylistInfo fetches title and uploader for a playlist via the oEmbed
// endpoint, which accepts playlist URLs as well as watch URLs.
func (c *Client) PlaylistInfo(ctx context.Context, playlistID string) (VideoInfo, error) {
	playlistURL := "https://www.youtube.com/playlist?list=" + playlistID
	u := c.OEmbedBase + "?format=json&url=" + url.QueryEscape(playlistURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return VideoInfo{}, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("playlist info: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return VideoInfo{}, fmt.Errorf("playlist info: status %d", resp.StatusCode)
	}
	var oe oembedResp
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return VideoInfo{}, fmt.Errorf("playlist info: %w", err)
	}
	return VideoInfo{Title: oe.Title, Author: oe.AuthorName, VideoURL: playlistURL}, nil
}

var playlistVideoID = regexp.MustCompile(`"videoId":"([a-zA-Z0-9_-]{11})"`)

// PlaylistItems scrapes the playlist page for its video IDs, in playlist
// order with duplicates removed. YouTube repeats each ID several times in
// the embedded player data, so the first occurrence wins.
func (c *Client) PlaylistItems(ctx context.Context, playlistID string, limit int) ([]string, error) {
	u := c.PlaylistBase + "?list=" + url.QueryEscape(playlistID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("playlist items: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("playlist items: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("playlist items: %w", err)
	}
	seen := make(map[string]bool)
	var ids []string
	for _, m := range playlistVideoID.FindAllSubmatch(body, -1) {
		id := string(m[1])
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
		if limit > 0 && len(ids) >= limit {
			break
		}
	}
	return ids, nil
}

type timedText struct {
	Texts []struct {
		Body string `xml:",chardata"`
	} `xml:"text"`
}

// Transcript fetches the caption track for a video. An empty string with a
// nil error means no captions exist.
func (c *Client) Transcript(ctx context.Context, videoID, language string) (string, error) {
	if language == "" {
		language = "en"
	}
	u := fmt.Sprintf("%s?lang=%s&v=%s", c.TimedTextBase, url.QueryEscape(language), url.QueryEscape(videoID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcript: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcript: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", fmt.Errorf("transcript: %w", err)
	}
	return ParseTimedText(body), nil
}

// ParseTimedText flattens a timedtext XML document into plain text.
func ParseTimedText(body []byte) string {
	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return ""
	}
	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		line := strings.TrimSpace(html.UnescapeString(t.Body))
		if line != "" {
			parts = append(parts, line)
		}
	}
	return strings.Join(parts, " ")
}

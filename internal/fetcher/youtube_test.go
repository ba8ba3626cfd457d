package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	testChannelID = "UCabcdefghijklmnopqrstuv"
	testUploadsID = "UUabcdefghijklmnopqrstuv"
)

// newTestClient points a Client at a fake YouTube API server.
func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	service, err := youtube.NewService(context.Background(),
		option.WithEndpoint(ts.URL),
		option.WithHTTPClient(ts.Client()))
	require.NoError(t, err)
	return NewClientWithService(service)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

func TestFetchChannelsIgnoresInvalidIDs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		// Only the real ID comes back, regardless of what was asked for.
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id": testChannelID,
				"snippet": map[string]interface{}{
					"title":       "Test Channel",
					"customUrl":   "@testchannel",
					"description": "A channel",
					"publishedAt": "2015-03-01T12:00:00Z",
					"thumbnails": map[string]interface{}{
						"default": map[string]interface{}{"url": "http://img/default.jpg"},
						"medium":  map[string]interface{}{"url": "http://img/medium.jpg"},
						"high":    map[string]interface{}{"url": "http://img/high.jpg"},
					},
				},
				"statistics": map[string]interface{}{
					"subscriberCount": "1000",
					"videoCount":      "120",
					"viewCount":       "999999",
				},
			}},
		})
	})

	client := newTestClient(t, mux)
	channels, invalid, err := client.FetchChannels(context.Background(),
		[]string{testChannelID, "invalid123", testChannelID})

	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, []string{"invalid123"}, invalid)

	ch := channels[0]
	assert.Equal(t, testChannelID, ch.ID)
	assert.Equal(t, "Test Channel", ch.Name)
	assert.Equal(t, "@testchannel", ch.CustomURL)
	assert.Equal(t, int64(1000), ch.SubscriberCount)
	assert.Equal(t, int64(120), ch.VideoCount)
	assert.Equal(t, int64(999999), ch.ViewCount)
	assert.Equal(t, "http://img/high.jpg", ch.ThumbnailURL)
	assert.Equal(t, "http://img/medium.jpg", ch.Thumbnails.Medium)
	assert.Equal(t, 2015, ch.PublishedAt.Year())
}

func TestFetchChannelsEmptyInput(t *testing.T) {
	client := newTestClient(t, http.NewServeMux())
	channels, invalid, err := client.FetchChannels(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, channels)
	assert.Empty(t, invalid)
}

func TestFetchAllVideosUnknownChannel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{"items": []interface{}{}})
	})

	client := newTestClient(t, mux)
	videos, err := client.FetchAllVideos(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestFetchAllVideosPaginationCompleteness(t *testing.T) {
	const totalVideos = 120

	allIDs := make([]string, totalVideos)
	for i := range allIDs {
		allIDs[i] = fmt.Sprintf("vid%03d", i+1)
	}

	var playlistCalls, videoCalls int

	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id": testChannelID,
				"contentDetails": map[string]interface{}{
					"relatedPlaylists": map[string]interface{}{"uploads": testUploadsID},
				},
			}},
		})
	})
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		playlistCalls++
		assert.Equal(t, testUploadsID, r.URL.Query().Get("playlistId"))

		start := 0
		switch r.URL.Query().Get("pageToken") {
		case "":
		case "page2":
			start = 50
		case "page3":
			start = 100
		default:
			t.Errorf("unexpected page token %q", r.URL.Query().Get("pageToken"))
		}
		end := start + 50
		if end > totalVideos {
			end = totalVideos
		}

		items := make([]map[string]interface{}, 0, end-start)
		for _, id := range allIDs[start:end] {
			items = append(items, map[string]interface{}{
				"contentDetails": map[string]interface{}{"videoId": id},
			})
		}
		page := map[string]interface{}{"items": items}
		switch start {
		case 0:
			page["nextPageToken"] = "page2"
		case 50:
			page["nextPageToken"] = "page3"
		}
		writeJSON(t, w, page)
	})
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		videoCalls++
		ids := r.URL.Query()["id"]
		assert.LessOrEqual(t, len(ids), 50)

		items := make([]map[string]interface{}, 0, len(ids))
		for _, id := range ids {
			items = append(items, map[string]interface{}{
				"id": id,
				"snippet": map[string]interface{}{
					"title":       "Video " + id,
					"publishedAt": "2023-06-15T10:00:00Z",
					"thumbnails": map[string]interface{}{
						"high": map[string]interface{}{"url": "http://img/" + id + ".jpg"},
					},
				},
				"contentDetails": map[string]interface{}{"duration": "PT1H2M3S"},
				"statistics": map[string]interface{}{
					"viewCount":    "500",
					"likeCount":    "50",
					"commentCount": "5",
				},
			})
		}
		writeJSON(t, w, map[string]interface{}{"items": items})
	})

	client := newTestClient(t, mux)
	videos, err := client.FetchAllVideos(context.Background(), testChannelID)
	require.NoError(t, err)

	assert.Equal(t, 3, playlistCalls, "page size 50 means 3 page fetches for 120 videos")
	assert.Equal(t, 3, videoCalls, "batch limit 50 means 3 detail calls for 120 videos")

	require.Len(t, videos, totalVideos)
	seen := make(map[string]bool, totalVideos)
	for _, v := range videos {
		assert.False(t, seen[v.ID], "duplicate video %s", v.ID)
		seen[v.ID] = true
		assert.Equal(t, testChannelID, v.ChannelID)
		assert.Equal(t, int64(3723), v.DurationSeconds)
		assert.Equal(t, int64(500), v.Views)
		assert.Equal(t, int64(50), v.Likes)
		assert.Equal(t, int64(5), v.Comments)
	}
}

func TestFetchAllVideosMissingFieldsDefaultToZero(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id": testChannelID,
				"contentDetails": map[string]interface{}{
					"relatedPlaylists": map[string]interface{}{"uploads": testUploadsID},
				},
			}},
		})
	})
	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{
				{"contentDetails": map[string]interface{}{"videoId": "vidbare"}},
			},
		})
	})
	mux.HandleFunc("/youtube/v3/videos", func(w http.ResponseWriter, r *http.Request) {
		// No statistics, no duration, hidden like count: everything coerces to 0.
		writeJSON(t, w, map[string]interface{}{
			"items": []map[string]interface{}{{
				"id":      "vidbare",
				"snippet": map[string]interface{}{"title": "Bare"},
			}},
		})
	})

	client := newTestClient(t, mux)
	videos, err := client.FetchAllVideos(context.Background(), testChannelID)
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, "Bare", v.Title)
	assert.Zero(t, v.DurationSeconds)
	assert.Zero(t, v.Views)
	assert.Zero(t, v.Likes)
	assert.Zero(t, v.Comments)
	assert.True(t, v.PublishedAt.IsZero())
}

func TestFetchAllVideosAPIFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":500}}`, http.StatusInternalServerError)
	})

	client := newTestClient(t, mux)
	videos, err := client.FetchAllVideos(context.Background(), testChannelID)
	assert.Error(t, err)
	assert.Empty(t, videos)
}

package fetcher

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/yt-metrics/internal/models"
)

// batchSize is the YouTube API maximum per request, for both batched ID
// lookups and playlist pages.
const batchSize = 50

// Client handles YouTube Data API interactions
type Client struct {
	service *youtube.Service
}

// NewClient creates a new YouTube client authenticated with the given API key
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %v", err)
	}
	return &Client{service: service}, nil
}

// NewClientWithService wraps an already constructed service. Tests use this
// to point the client at a fake API server.
func NewClientWithService(service *youtube.Service) *Client {
	return &Client{service: service}
}

// FetchChannels looks up channel metadata and statistics for the given IDs in
// batches of at most 50 per call. IDs the API does not return are reported in
// the second return value and logged, never treated as a failure.
func (c *Client) FetchChannels(ctx context.Context, channelIDs []string) ([]models.Channel, []string, error) {
	ids := dedupe(channelIDs)
	if len(ids) == 0 {
		return nil, nil, nil
	}

	returned := make(map[string]bool, len(ids))
	var channels []models.Channel

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}

		call := c.service.Channels.List([]string{"snippet", "statistics"}).
			Id(ids[start:end]...).
			MaxResults(batchSize).
			Context(ctx)
		response, err := call.Do()
		if err != nil {
			log.Printf("Error fetching channels: %v", err)
			return nil, nil, fmt.Errorf("error fetching channels: %v", err)
		}

		for _, item := range response.Items {
			if item == nil || item.Id == "" {
				continue
			}
			channels = append(channels, channelFromItem(item))
			returned[item.Id] = true
		}
	}

	var invalid []string
	for _, id := range ids {
		if !returned[id] {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		log.Printf("Invalid channel IDs ignored: %v", invalid)
	}

	return channels, invalid, nil
}

// FetchAllVideos returns full metadata for every upload of a channel. It
// resolves the uploads playlist, pages through it 50 items at a time until no
// continuation token remains, then batch-fetches video details in chunks of
// 50. A channel the API does not know yields an empty result, not an error.
func (c *Client) FetchAllVideos(ctx context.Context, channelID string) ([]models.Video, error) {
	playlistID, err := c.uploadsPlaylistID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if playlistID == "" {
		log.Printf("No channel found with ID: %s", channelID)
		return nil, nil
	}

	var videoIDs []string
	nextPageToken := ""

	for {
		call := c.service.PlaylistItems.List([]string{"contentDetails"}).
			PlaylistId(playlistID).
			MaxResults(batchSize).
			Context(ctx)
		if nextPageToken != "" {
			call = call.PageToken(nextPageToken)
		}

		response, err := call.Do()
		if err != nil {
			log.Printf("Error fetching playlist items: %v", err)
			return nil, fmt.Errorf("error fetching playlist items: %v", err)
		}

		for _, item := range response.Items {
			if item != nil && item.ContentDetails != nil && item.ContentDetails.VideoId != "" {
				videoIDs = append(videoIDs, item.ContentDetails.VideoId)
			}
		}

		nextPageToken = response.NextPageToken
		if nextPageToken == "" {
			break
		}
	}

	videos := make([]models.Video, 0, len(videoIDs))
	for start := 0; start < len(videoIDs); start += batchSize {
		end := start + batchSize
		if end > len(videoIDs) {
			end = len(videoIDs)
		}

		call := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Id(videoIDs[start:end]...).
			Context(ctx)
		response, err := call.Do()
		if err != nil {
			log.Printf("Error fetching video details: %v", err)
			return nil, fmt.Errorf("error fetching video details: %v", err)
		}

		for _, item := range response.Items {
			if item == nil || item.Id == "" {
				continue
			}
			videos = append(videos, videoFromItem(item, channelID))
		}
	}

	return videos, nil
}

// uploadsPlaylistID resolves the channel's uploads playlist. An unknown
// channel resolves to the empty string without an error.
func (c *Client) uploadsPlaylistID(ctx context.Context, channelID string) (string, error) {
	call := c.service.Channels.List([]string{"contentDetails"}).
		Id(channelID).
		Context(ctx)
	response, err := call.Do()
	if err != nil {
		log.Printf("Error fetching channel details: %v", err)
		return "", fmt.Errorf("error fetching channel details: %v", err)
	}

	if len(response.Items) == 0 {
		return "", nil
	}

	item := response.Items[0]
	if item == nil || item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil {
		return "", nil
	}
	return item.ContentDetails.RelatedPlaylists.Uploads, nil
}

func channelFromItem(item *youtube.Channel) models.Channel {
	channel := models.Channel{ID: item.Id}

	if snippet := item.Snippet; snippet != nil {
		channel.Name = snippet.Title
		channel.CustomURL = snippet.CustomUrl
		channel.Description = snippet.Description
		channel.PublishedAt = parseTimestamp(snippet.PublishedAt)
		channel.Thumbnails = thumbnailTiers(snippet.Thumbnails)
	}
	channel.ThumbnailURL = channel.Thumbnails.High
	if channel.ThumbnailURL == "" {
		channel.ThumbnailURL = channel.Thumbnails.Default
	}

	if stats := item.Statistics; stats != nil {
		channel.SubscriberCount = int64(stats.SubscriberCount)
		channel.VideoCount = int64(stats.VideoCount)
		channel.ViewCount = int64(stats.ViewCount)
	}

	return channel
}

func videoFromItem(item *youtube.Video, channelID string) models.Video {
	video := models.Video{ID: item.Id, ChannelID: channelID}

	if snippet := item.Snippet; snippet != nil {
		video.Title = snippet.Title
		video.Description = snippet.Description
		video.PublishedAt = parseTimestamp(snippet.PublishedAt)
		tiers := thumbnailTiers(snippet.Thumbnails)
		video.ThumbnailURL = tiers.High
		if video.ThumbnailURL == "" {
			video.ThumbnailURL = tiers.Default
		}
	}
	if details := item.ContentDetails; details != nil {
		video.DurationSeconds = parseISODuration(details.Duration)
	}
	if stats := item.Statistics; stats != nil {
		video.Views = int64(stats.ViewCount)
		video.Likes = int64(stats.LikeCount)
		video.Comments = int64(stats.CommentCount)
	}

	return video
}

func thumbnailTiers(details *youtube.ThumbnailDetails) models.Thumbnails {
	var tiers models.Thumbnails
	if details == nil {
		return tiers
	}
	if details.Default != nil {
		tiers.Default = details.Default.Url
	}
	if details.Medium != nil {
		tiers.Medium = details.Medium.Url
	}
	if details.High != nil {
		tiers.High = details.High.Url
	}
	return tiers
}

func parseTimestamp(s string) time.Time {
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

package models

import "time"

// Thumbnails holds the resolution tiers the YouTube API reports for a
// channel or video. Only the high tier is persisted.
type Thumbnails struct {
	Default string `json:"default,omitempty"`
	Medium  string `json:"medium,omitempty"`
	High    string `json:"high,omitempty"`
}

// Channel represents a YouTube channel row in the channels table.
type Channel struct {
	ID              string    `db:"channel_id" json:"channelId"`
	Name            string    `db:"channel_name" json:"channelName"`
	CustomURL       string    `db:"custom_url" json:"customUrl,omitempty"`
	Description     string    `db:"description" json:"description"`
	PublishedAt     time.Time `db:"published_at" json:"publishedAt"`
	SubscriberCount int64     `db:"subscriber_count" json:"subscriberCount"`
	VideoCount      int64     `db:"video_count" json:"videoCount"`
	ViewCount       int64     `db:"view_count" json:"viewCount"`
	ThumbnailURL    string    `db:"thumbnail_url" json:"thumbnailUrl,omitempty"`
	LastUpdated     time.Time `db:"last_updated" json:"lastUpdated"`

	// Thumbnails carries every tier as fetched; not a column.
	Thumbnails Thumbnails `db:"-" json:"thumbnails"`
}

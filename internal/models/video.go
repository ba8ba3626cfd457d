package models

import "time"

// Video represents a YouTube video row in the videos table.
// Views, Likes and Comments are filled by the fetcher and persisted as a
// statistics row, not as video columns.
type Video struct {
	ID              string    `db:"video_id" json:"videoId"`
	ChannelID       string    `db:"channel_id" json:"channelId"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	PublishedAt     time.Time `db:"published_at" json:"publishedAt"`
	DurationSeconds int64     `db:"duration_seconds" json:"durationSeconds"`
	ThumbnailURL    string    `db:"thumbnail_url" json:"thumbnailUrl,omitempty"`
	LastUpdated     time.Time `db:"last_updated" json:"lastUpdated"`

	Views    int64 `db:"-" json:"views"`
	Likes    int64 `db:"-" json:"likes"`
	Comments int64 `db:"-" json:"comments"`
}

// VideoStats is one timestamped engagement snapshot for a video. Rows are
// append-only; the newest fetched_at is the current one.
type VideoStats struct {
	ID           int64     `db:"id" json:"id"`
	VideoID      string    `db:"video_id" json:"videoId"`
	ViewCount    int64     `db:"view_count" json:"viewCount"`
	LikeCount    int64     `db:"like_count" json:"likeCount"`
	CommentCount int64     `db:"comment_count" json:"commentCount"`
	FetchedAt    time.Time `db:"fetched_at" json:"fetchedAt"`
}

// VideoWithStats is the flat join of a video with its latest statistics row,
// shaped for tabular display.
type VideoWithStats struct {
	ID              string    `db:"video_id" json:"videoId"`
	ChannelID       string    `db:"channel_id" json:"channelId"`
	Title           string    `db:"title" json:"title"`
	Description     string    `db:"description" json:"description"`
	PublishedAt     time.Time `db:"published_at" json:"publishedAt"`
	DurationSeconds int64     `db:"duration_seconds" json:"durationSeconds"`
	ThumbnailURL    string    `db:"thumbnail_url" json:"thumbnailUrl,omitempty"`
	ViewCount       int64     `db:"view_count" json:"viewCount"`
	LikeCount       int64     `db:"like_count" json:"likeCount"`
	CommentCount    int64     `db:"comment_count" json:"commentCount"`
	FetchedAt       time.Time `db:"fetched_at" json:"fetchedAt"`
}

package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yt-metrics/internal/models"
)

// UpsertVideos saves or updates video data and statistics for one fetch in a
// single transaction: each video row is inserted or updated in place (keyed
// by video ID) and a new timestamped statistics row is appended. A failure on
// any record rolls back the entire batch; earlier commits stay intact.
// Videos must belong to an already saved channel or the foreign key rejects
// the batch.
func (s *Store) UpsertVideos(ctx context.Context, channelID string, videos []models.Video) error {
	if len(videos) == 0 {
		return nil
	}
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	videoQuery := s.db.Rebind(`
		INSERT INTO videos (video_id, channel_id, title, description,
			published_at, duration_seconds, thumbnail_url, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (video_id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			published_at = excluded.published_at,
			duration_seconds = excluded.duration_seconds,
			thumbnail_url = excluded.thumbnail_url,
			last_updated = excluded.last_updated`)

	statsQuery := s.db.Rebind(`
		INSERT INTO video_statistics (video_id, view_count, like_count, comment_count, fetched_at)
		VALUES (?, ?, ?, ?, ?)`)

	for _, video := range videos {
		_, err := tx.ExecContext(ctx, videoQuery,
			video.ID, channelID, video.Title, video.Description,
			video.PublishedAt, video.DurationSeconds, video.ThumbnailURL, now)
		if err != nil {
			tx.Rollback()
			log.Printf("Error saving video %s: %v", video.ID, err)
			return fmt.Errorf("failed to save video %s: %w", video.ID, err)
		}

		_, err = tx.ExecContext(ctx, statsQuery,
			video.ID, video.Views, video.Likes, video.Comments, now)
		if err != nil {
			tx.Rollback()
			log.Printf("Error saving statistics for video %s: %v", video.ID, err)
			return fmt.Errorf("failed to save statistics for video %s: %w", video.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing videos for channel %s: %v", channelID, err)
		return fmt.Errorf("failed to commit videos for channel %s: %w", channelID, err)
	}
	return nil
}

// ReadVideos returns every video owned by the channel joined with its latest
// statistics row, newest upload first. An unknown or empty channel yields an
// empty slice.
//
// The join is inner on purpose: UpsertVideos appends a statistics row in the
// same transaction that writes the video, so every video has at least one.
// Bare column references also keep their declared types, which the SQLite
// driver needs to hand fetched_at back as a time and not a string.
func (s *Store) ReadVideos(ctx context.Context, channelID string) ([]models.VideoWithStats, error) {
	videos := []models.VideoWithStats{}
	query := s.db.Rebind(`
		SELECT v.video_id, v.channel_id, v.title, v.description, v.published_at,
			v.duration_seconds, v.thumbnail_url,
			s.view_count, s.like_count, s.comment_count, s.fetched_at
		FROM videos v
		JOIN video_statistics s ON s.id = (
			SELECT id FROM video_statistics
			WHERE video_id = v.video_id
			ORDER BY fetched_at DESC, id DESC
			LIMIT 1
		)
		WHERE v.channel_id = ?
		ORDER BY v.published_at DESC, v.video_id`)

	if err := s.db.SelectContext(ctx, &videos, query, channelID); err != nil {
		return nil, fmt.Errorf("failed to read videos for channel %s: %w", channelID, err)
	}
	return videos, nil
}

// StatsHistory returns the full statistics time series for a video, oldest
// first, for trend charts.
func (s *Store) StatsHistory(ctx context.Context, videoID string) ([]models.VideoStats, error) {
	history := []models.VideoStats{}
	query := s.db.Rebind(`
		SELECT id, video_id, view_count, like_count, comment_count, fetched_at
		FROM video_statistics
		WHERE video_id = ?
		ORDER BY fetched_at, id`)

	if err := s.db.SelectContext(ctx, &history, query, videoID); err != nil {
		return nil, fmt.Errorf("failed to read statistics for video %s: %w", videoID, err)
	}
	return history, nil
}

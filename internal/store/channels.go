package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yt-metrics/internal/models"
)

// UpsertChannel saves or updates channel data, keyed by the external channel
// ID. All attribute columns are overwritten and last_updated advances; a
// re-fetch never creates a second row. The write is one transaction and any
// failure rolls it back whole.
func (s *Store) UpsertChannel(ctx context.Context, channel *models.Channel) error {
	now := time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	query := s.db.Rebind(`
		INSERT INTO channels (channel_id, channel_name, custom_url, description,
			published_at, subscriber_count, video_count, view_count, thumbnail_url, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (channel_id) DO UPDATE SET
			channel_name = excluded.channel_name,
			custom_url = excluded.custom_url,
			description = excluded.description,
			published_at = excluded.published_at,
			subscriber_count = excluded.subscriber_count,
			video_count = excluded.video_count,
			view_count = excluded.view_count,
			thumbnail_url = excluded.thumbnail_url,
			last_updated = excluded.last_updated`)

	_, err = tx.ExecContext(ctx, query,
		channel.ID, channel.Name, channel.CustomURL, channel.Description,
		channel.PublishedAt, channel.SubscriberCount, channel.VideoCount,
		channel.ViewCount, channel.ThumbnailURL, now)
	if err != nil {
		tx.Rollback()
		log.Printf("Error saving channel %s: %v", channel.ID, err)
		return fmt.Errorf("failed to save channel %s: %w", channel.ID, err)
	}

	if err := tx.Commit(); err != nil {
		log.Printf("Error committing channel %s: %v", channel.ID, err)
		return fmt.Errorf("failed to commit channel %s: %w", channel.ID, err)
	}

	channel.LastUpdated = now
	return nil
}

// GetChannel returns the cached channel, or nil when it was never synced.
func (s *Store) GetChannel(ctx context.Context, channelID string) (*models.Channel, error) {
	var channel models.Channel
	query := s.db.Rebind(`
		SELECT channel_id, channel_name, custom_url, description, published_at,
			subscriber_count, video_count, view_count, thumbnail_url, last_updated
		FROM channels
		WHERE channel_id = ?`)

	if err := s.db.GetContext(ctx, &channel, query, channelID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get channel %s: %w", channelID, err)
	}
	return &channel, nil
}

// ListChannels returns every cached channel, newest sync first.
func (s *Store) ListChannels(ctx context.Context) ([]models.Channel, error) {
	channels := []models.Channel{}
	query := `
		SELECT channel_id, channel_name, custom_url, description, published_at,
			subscriber_count, video_count, view_count, thumbnail_url, last_updated
		FROM channels
		ORDER BY last_updated DESC, channel_id`

	if err := s.db.SelectContext(ctx, &channels, query); err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	return channels, nil
}

// DeleteChannel removes a channel and, through the cascading foreign keys,
// all of its videos and their statistics. Returns false when no such channel
// was cached.
func (s *Store) DeleteChannel(ctx context.Context, channelID string) (bool, error) {
	query := s.db.Rebind(`DELETE FROM channels WHERE channel_id = ?`)
	result, err := s.db.ExecContext(ctx, query, channelID)
	if err != nil {
		log.Printf("Error deleting channel %s: %v", channelID, err)
		return false, fmt.Errorf("failed to delete channel %s: %w", channelID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

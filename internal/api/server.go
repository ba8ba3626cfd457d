package api

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yt-metrics/internal/fetcher"
	"github.com/yt-metrics/internal/store"
)

// Server represents the API server the dashboard talks to.
type Server struct {
	router  *gin.Engine
	fetcher *fetcher.Client
	store   *store.Store
}

// NewServer creates a new API server
func NewServer(client *fetcher.Client, st *store.Store) *Server {
	router := gin.Default()

	// Configure CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:3001", "http://localhost:8501"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router:  router,
		fetcher: client,
		store:   st,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Channel endpoints
	s.router.GET("/channels", s.listChannels)
	s.router.GET("/channels/:id", s.getChannel)
	s.router.POST("/channels/:id/sync", s.syncChannel)
	s.router.DELETE("/channels/:id", s.deleteChannel)

	// Video endpoints
	s.router.GET("/channels/:id/videos", s.getChannelVideos)
	s.router.GET("/videos/:id/statistics", s.getVideoStats)
}

// isValidChannelID enforces the input rule the dashboard relies on: channel
// IDs start with "UC" and are 24 characters long.
func isValidChannelID(id string) bool {
	return len(id) == 24 && strings.HasPrefix(id, "UC")
}

// syncChannel fetches the channel and all of its uploads from YouTube and
// upserts them into the store.
func (s *Server) syncChannel(c *gin.Context) {
	channelID := c.Param("id")
	if !isValidChannelID(channelID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel ID must start with UC and be 24 characters long"})
		return
	}

	ctx := c.Request.Context()
	log.Printf("Syncing channel: %s", channelID)

	channels, _, err := s.fetcher.FetchChannels(ctx, []string{channelID})
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch channel from YouTube"})
		return
	}
	if len(channels) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}

	channel := channels[0]
	if err := s.store.UpsertChannel(ctx, &channel); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save channel"})
		return
	}

	videos, err := s.fetcher.FetchAllVideos(ctx, channelID)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch videos from YouTube"})
		return
	}
	if err := s.store.UpsertVideos(ctx, channelID, videos); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save videos"})
		return
	}

	log.Printf("Synced channel %s with %d videos", channelID, len(videos))
	c.JSON(http.StatusOK, gin.H{
		"channel":      channel,
		"videosSynced": len(videos),
	})
}

// listChannels returns every cached channel.
func (s *Server) listChannels(c *gin.Context) {
	channels, err := s.store.ListChannels(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list channels"})
		return
	}
	c.JSON(http.StatusOK, channels)
}

// getChannel returns the cached channel without touching YouTube.
func (s *Server) getChannel(c *gin.Context) {
	channel, err := s.store.GetChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get channel"})
		return
	}
	if channel == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}
	c.JSON(http.StatusOK, channel)
}

// getChannelVideos returns the channel's videos joined with their latest
// statistics, for tabular display.
func (s *Server) getChannelVideos(c *gin.Context) {
	videos, err := s.store.ReadVideos(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read videos"})
		return
	}
	c.JSON(http.StatusOK, videos)
}

// getVideoStats returns the statistics time series for one video.
func (s *Server) getVideoStats(c *gin.Context) {
	history, err := s.store.StatsHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read statistics"})
		return
	}
	c.JSON(http.StatusOK, history)
}

// deleteChannel removes a channel and cascades to its videos and statistics.
func (s *Server) deleteChannel(c *gin.Context) {
	found, err := s.store.DeleteChannel(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete channel"})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

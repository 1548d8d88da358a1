package router

import (
	"vidstream-go/internal/api/handler"
	"vidstream-go/internal/api/middleware"
	"vidstream-go/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// Handlers 路由依赖的全部 Handler
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Video        *handler.VideoHandler
	Like         *handler.LikeHandler
	Subscription *handler.SubscriptionHandler
	Comment      *handler.CommentHandler
	Tweet        *handler.TweetHandler
	Playlist     *handler.PlaylistHandler
	Search       *handler.SearchHandler
	Dashboard    *handler.DashboardHandler
}

// Setup 注册所有业务路由
func Setup(r *gin.Engine, h *Handlers, limits *ratelimit.Registry) {
	v1 := r.Group("/api/v1")
	authed := middleware.AuthRequired()
	optional := middleware.AuthOptional()
	limit := func(a ratelimit.Action) gin.HandlerFunc {
		return middleware.RateLimit(limits, a)
	}

	// --- 认证模块 ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", limit(ratelimit.Login), h.Auth.Login)
		auth.POST("/logout", authed, h.Auth.Logout)
		auth.GET("/me", authed, h.Auth.Me)
	}

	// --- 用户/频道模块 ---
	users := v1.Group("/users", optional)
	{
		users.GET("/:id/channel", h.User.GetChannel)
		users.GET("/:id/videos", h.User.ListVideos)
		users.GET("/:id/tweets", h.User.ListTweets)
		users.GET("/:id/playlists", h.User.ListPlaylists)
	}

	// --- 视频模块 ---
	videos := v1.Group("/videos")
	{
		videos.GET("/:id", optional, h.Video.GetDetail)
		videos.POST("/:id/views", optional, h.Video.RecordView)
		videos.GET("/:id/comments", h.Comment.ListByVideo)

		videosAuth := videos.Group("", authed)
		{
			videosAuth.POST("", limit(ratelimit.PublishVideo), h.Video.Publish)
			videosAuth.PATCH("/:id", limit(ratelimit.UpdateVideo), h.Video.UpdateVideo)
			videosAuth.DELETE("/:id", h.Video.DeleteVideo)
			videosAuth.PATCH("/:id/publish", limit(ratelimit.TogglePublish), h.Video.TogglePublish)
			videosAuth.POST("/:id/comments", limit(ratelimit.Comment), h.Comment.Create)
		}
	}
	v1.GET("/history", authed, h.Video.WatchHistory)

	// --- 评论模块 ---
	comments := v1.Group("/comments", authed)
	{
		comments.PATCH("/:id", limit(ratelimit.Comment), h.Comment.Update)
		comments.DELETE("/:id", h.Comment.Delete)
	}

	// --- 点赞模块 ---
	likes := v1.Group("/likes")
	{
		likes.GET("/status", optional, h.Like.GetStatus)

		likesAuth := likes.Group("", authed)
		{
			toggle := likesAuth.Group("/toggle", limit(ratelimit.ToggleLike))
			{
				toggle.POST("/v/:id", h.Like.ToggleVideoLike)
				toggle.POST("/c/:id", h.Like.ToggleCommentLike)
				toggle.POST("/t/:id", h.Like.ToggleTweetLike)
			}
			likesAuth.GET("/videos", h.Like.ListLikedVideos)
			likesAuth.POST("/batch/status", h.Like.BatchStatus)
		}
	}

	// --- 订阅模块 ---
	subs := v1.Group("/subscriptions")
	{
		subs.GET("/c/:id", optional, h.Subscription.ChannelInfo)
		subs.GET("/c/:id/subscribers", h.Subscription.ListSubscribers)
		subs.GET("/u/:id", h.Subscription.ListSubscribedChannels)
		subs.POST("/c/:id", authed, limit(ratelimit.ToggleSubscription), h.Subscription.Toggle)
	}

	// --- 动态模块 ---
	tweets := v1.Group("/tweets", authed)
	{
		tweets.POST("", limit(ratelimit.CreateTweet), h.Tweet.Create)
		tweets.PATCH("/:id", limit(ratelimit.UpdateTweet), h.Tweet.Update)
		tweets.DELETE("/:id", h.Tweet.Delete)
	}

	// --- 播放列表模块 ---
	playlists := v1.Group("/playlists")
	{
		playlists.GET("/:id", optional, h.Playlist.Get)

		playlistsAuth := playlists.Group("", authed)
		{
			playlistsAuth.POST("", h.Playlist.Create)
			playlistsAuth.PATCH("/:id", limit(ratelimit.UpdatePlaylist), h.Playlist.Update)
			playlistsAuth.DELETE("/:id", h.Playlist.Delete)
			playlistsAuth.PATCH("/:id/visibility", limit(ratelimit.UpdatePlaylist), h.Playlist.ToggleVisibility)
			playlistsAuth.PATCH("/:id/videos/:video_id", limit(ratelimit.UpdatePlaylist), h.Playlist.AddVideo)
			playlistsAuth.DELETE("/:id/videos/:video_id", limit(ratelimit.UpdatePlaylist), h.Playlist.RemoveVideo)
		}
	}

	// --- 搜索模块 ---
	search := v1.Group("/search")
	{
		search.GET("/videos", h.Search.SearchVideos)
		search.POST("/reindex", authed, middleware.AdminRequired(), h.Search.Reindex)
	}

	// --- 频道数据面板 ---
	dashboard := v1.Group("/dashboard", authed)
	{
		dashboard.GET("/stats/:id", h.Dashboard.ChannelStats)
		dashboard.GET("/videos/:id", h.Dashboard.ChannelVideos)
	}
}

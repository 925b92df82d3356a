package handlers

import (
	"net/http"
	"time"

	"github.com/videotube/backend/internal/middleware"
)

// Dependencies bundles everything the HTTP surface needs.
type Dependencies struct {
	Users         UserStore
	Sessions      SessionManager
	Tokens        middleware.TokenValidator
	Videos        VideoStore
	Comments      CommentStore
	Tweets        TweetStore
	Likes         LikeStore
	Subscriptions SubscriptionStore
	Playlists     PlaylistStore
	Stats         StatsCollector
	Media         MediaStore
	AuthLimiter   RateLimiter
	NowFunc       func() time.Time
}

// RegisterRoutes mounts every API endpoint on the mux. Read endpoints that
// serve public feeds stay open; session, mutate, and dashboard endpoints run
// behind the bearer-token middleware.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	authed := middleware.Authenticate(deps.Tokens)
	maybeAuthed := middleware.AuthenticateOptional(deps.Tokens)

	authHandler := AuthHandler{Users: deps.Users, Sessions: deps.Sessions, Limiter: deps.AuthLimiter, NowFunc: deps.NowFunc}
	videoHandler := VideoHandler{Videos: deps.Videos, Media: deps.Media, NowFunc: deps.NowFunc}
	commentHandler := CommentHandler{Comments: deps.Comments, Videos: deps.Videos, NowFunc: deps.NowFunc}
	tweetHandler := TweetHandler{Tweets: deps.Tweets, NowFunc: deps.NowFunc}
	likeHandler := LikeHandler{Likes: deps.Likes}
	subscriptionHandler := SubscriptionHandler{Subscriptions: deps.Subscriptions}
	playlistHandler := PlaylistHandler{Playlists: deps.Playlists, Videos: deps.Videos, NowFunc: deps.NowFunc}
	dashboardHandler := DashboardHandler{Stats: deps.Stats, Videos: deps.Videos}
	mediaHandler := MediaHandler{Media: deps.Media}

	mux.HandleFunc("/healthz", HealthHandler{}.Handle)

	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)
	mux.HandleFunc("POST /api/v1/auth/logout", authHandler.Logout)
	mux.Handle("POST /api/v1/auth/change-password", authed(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("GET /api/v1/auth/me", authed(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /api/v1/auth/me", authed(http.HandlerFunc(authHandler.UpdateProfile)))

	// The feed stays public, but a signed-in owner filtering by their own
	// channel gets their drafts back.
	mux.Handle("GET /api/v1/videos", maybeAuthed(http.HandlerFunc(videoHandler.List)))
	mux.HandleFunc("GET /api/v1/videos/{videoId}", videoHandler.Get)
	mux.Handle("POST /api/v1/videos", authed(http.HandlerFunc(videoHandler.Create)))
	mux.Handle("PATCH /api/v1/videos/{videoId}", authed(http.HandlerFunc(videoHandler.Update)))
	mux.Handle("PATCH /api/v1/videos/{videoId}/publish", authed(http.HandlerFunc(videoHandler.TogglePublish)))
	mux.Handle("DELETE /api/v1/videos/{videoId}", authed(http.HandlerFunc(videoHandler.Delete)))

	mux.HandleFunc("GET /api/v1/videos/{videoId}/comments", commentHandler.ListForVideo)
	mux.Handle("POST /api/v1/videos/{videoId}/comments", authed(http.HandlerFunc(commentHandler.Create)))
	mux.Handle("PATCH /api/v1/comments/{commentId}", authed(http.HandlerFunc(commentHandler.Update)))
	mux.Handle("DELETE /api/v1/comments/{commentId}", authed(http.HandlerFunc(commentHandler.Delete)))

	mux.Handle("POST /api/v1/tweets", authed(http.HandlerFunc(tweetHandler.Create)))
	mux.HandleFunc("GET /api/v1/users/{userId}/tweets", tweetHandler.ListForUser)
	mux.Handle("PATCH /api/v1/tweets/{tweetId}", authed(http.HandlerFunc(tweetHandler.Update)))
	mux.Handle("DELETE /api/v1/tweets/{tweetId}", authed(http.HandlerFunc(tweetHandler.Delete)))

	mux.Handle("POST /api/v1/likes/videos/{videoId}", authed(http.HandlerFunc(likeHandler.ToggleVideo)))
	mux.Handle("POST /api/v1/likes/comments/{commentId}", authed(http.HandlerFunc(likeHandler.ToggleComment)))
	mux.Handle("POST /api/v1/likes/tweets/{tweetId}", authed(http.HandlerFunc(likeHandler.ToggleTweet)))
	mux.Handle("GET /api/v1/likes/videos", authed(http.HandlerFunc(likeHandler.ListLikedVideos)))

	mux.Handle("POST /api/v1/subscriptions/{channelId}", authed(http.HandlerFunc(subscriptionHandler.Toggle)))
	mux.HandleFunc("GET /api/v1/channels/{channelId}/subscribers", subscriptionHandler.ListSubscribers)
	mux.HandleFunc("GET /api/v1/users/{subscriberId}/subscriptions", subscriptionHandler.ListChannels)

	mux.Handle("POST /api/v1/playlists", authed(http.HandlerFunc(playlistHandler.Create)))
	mux.HandleFunc("GET /api/v1/playlists/{playlistId}", playlistHandler.Get)
	mux.HandleFunc("GET /api/v1/users/{userId}/playlists", playlistHandler.ListForUser)
	mux.Handle("PATCH /api/v1/playlists/{playlistId}", authed(http.HandlerFunc(playlistHandler.Update)))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}", authed(http.HandlerFunc(playlistHandler.Delete)))
	mux.Handle("POST /api/v1/playlists/{playlistId}/videos/{videoId}", authed(http.HandlerFunc(playlistHandler.AddVideo)))
	mux.Handle("DELETE /api/v1/playlists/{playlistId}/videos/{videoId}", authed(http.HandlerFunc(playlistHandler.RemoveVideo)))

	mux.Handle("POST /api/v1/media", authed(http.HandlerFunc(mediaHandler.Upload)))

	mux.Handle("GET /api/v1/dashboard/stats", authed(http.HandlerFunc(dashboardHandler.GetStats)))
	mux.Handle("GET /api/v1/dashboard/videos", authed(http.HandlerFunc(dashboardHandler.ListVideos)))
}

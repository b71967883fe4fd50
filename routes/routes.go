package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vnkhanh/wepodcaster-backend/controllers"
	"github.com/vnkhanh/wepodcaster-backend/middleware"
	"github.com/vnkhanh/wepodcaster-backend/utils"
	"github.com/vnkhanh/wepodcaster-backend/ws"
)

// Handlers gom các controller đã được khởi tạo ở main
type Handlers struct {
	Tokens   *utils.TokenManager
	Limiter  *middleware.RateLimiter
	Gatherer prometheus.Gatherer

	Health   *controllers.HealthController
	Auth     *controllers.AuthController
	Webhook  *controllers.WebhookController
	User     *controllers.UserController
	Podcast  *controllers.PodcastController
	File     *controllers.FileController
	AI       *controllers.AIController
	Draft    *controllers.DraftController
	Playback *controllers.PlaybackController
	WS       *ws.Handler
}

func SetupRouter(r *gin.Engine, h Handlers) *gin.Engine {
	r.GET("/ping", h.Health.Ping)
	r.GET("/health", h.Health.HealthCheck)
	if h.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.Gatherer, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.AuthMiddleware(h.Tokens)
	api := r.Group("/api")

	auth := api.Group("/auth")
	{
		auth.POST("/google", h.Auth.GoogleLogin)
	}

	// identity provider gọi, xác thực bằng chữ ký HMAC
	api.POST("/webhooks/identity", h.Webhook.IdentityEvent)

	users := api.Group("/users")
	{
		users.GET("/top", h.User.GetTopUsers)
		users.GET("/:identityId", h.User.GetUser)
	}

	podcasts := api.Group("/podcasts")
	{
		podcasts.GET("", h.Podcast.GetAllPodcasts)
		podcasts.GET("/trending", h.Podcast.GetTrendingPodcasts)
		podcasts.GET("/search", h.Podcast.SearchPodcasts)
		podcasts.GET("/author/:authorId", h.Podcast.GetPodcastsByAuthor)
		podcasts.GET("/:id", h.Podcast.GetPodcast)
		podcasts.GET("/:id/similar", h.Podcast.GetSimilarPodcasts)
		podcasts.GET("/:id/details", middleware.OptionalAuthMiddleware(h.Tokens), h.Podcast.GetPodcastDetails)
		podcasts.POST("/:id/views", h.Podcast.IncrementViews)

		podcasts.POST("", requireAuth, h.Podcast.CreatePodcast)
		podcasts.DELETE("/:id", requireAuth, h.Podcast.DeletePodcast)
	}

	files := api.Group("/files", requireAuth)
	{
		files.POST("/upload-url", h.File.GenerateUploadURL)
		files.GET("/url", h.File.GetURL)
		files.POST("/image", h.File.UploadImage)
	}

	ai := api.Group("/ai", requireAuth)
	{
		ai.POST("/audio", h.Limiter.Middleware("ai_audio"), h.AI.GenerateAudio)
		ai.POST("/image-prompt", h.AI.SuggestImagePrompt)
		ai.POST("/prompt-from-document", h.AI.PromptFromDocument)
	}

	drafts := api.Group("/drafts/current", requireAuth)
	{
		drafts.GET("", h.Draft.GetDraft)
		drafts.PUT("", h.Draft.UpdateDraft)
		drafts.DELETE("", h.Draft.ResetDraft)
		drafts.POST("/generate", h.Limiter.Middleware("generate_podcast"), h.Draft.Generate)
	}

	playback := api.Group("/playback", requireAuth)
	{
		playback.GET("", h.Playback.GetPlayback)
		playback.PUT("", h.Playback.StartPlayback)
		playback.PATCH("/position", h.Playback.UpdatePosition)
		playback.DELETE("", h.Playback.StopPlayback)
	}

	// token truyền qua query vì browser không set được header cho websocket
	r.GET("/ws/user", h.WS.HandleUserWebSocket)

	return r
}

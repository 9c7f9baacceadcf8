// Package api wires the REST surface. Handlers stay thin: bind, delegate to
// a service, map the error kind onto an HTTP status.
package api

import (
	"log/slog"
	"net/http"

	"stayhub/auth"
	"stayhub/observability"
	"stayhub/repositories"
	"stayhub/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	auth          services.IAuthService
	conversations services.IConversationService
	messages      services.IMessageService
	stays         services.IStayService
	users         repositories.IUserRepository
	stats         *observability.Manager
	log           *slog.Logger
}

func NewHandler(
	authService services.IAuthService,
	conversations services.IConversationService,
	messages services.IMessageService,
	stays services.IStayService,
	users repositories.IUserRepository,
	stats *observability.Manager,
	log *slog.Logger,
) *Handler {
	return &Handler{
		auth:          authService,
		conversations: conversations,
		messages:      messages,
		stays:         stays,
		users:         users,
		stats:         stats,
		log:           log,
	}
}

// Router builds the gin engine. Everything except registration, login, and
// the liveness probe sits behind the bearer-token middleware.
func (h *Handler) Router(issuer auth.TokenIssuer) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.countRequests())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/auth/register", h.register)
	router.POST("/auth/login", h.login)

	authed := router.Group("/", issuer.Middleware())
	{
		authed.GET("/users/me", h.me)

		authed.GET("/conversations", h.listConversations)
		authed.POST("/conversations", h.createConversation)
		authed.GET("/conversations/:id", h.getConversation)
		authed.POST("/conversations/:id/participants", h.addParticipant)
		authed.POST("/conversations/:id/messages", h.postMessage)
		authed.GET("/conversations/:id/messages/search", h.searchMessages)

		authed.GET("/properties", h.listProperties)
		authed.POST("/properties", h.createProperty)
		authed.GET("/properties/:id", h.getProperty)
		authed.DELETE("/properties/:id", h.deleteProperty)
		authed.GET("/properties/:id/bookings", h.listPropertyBookings)
		authed.GET("/properties/:id/reviews", h.listPropertyReviews)
		authed.POST("/properties/:id/reviews", h.createReview)

		authed.POST("/bookings", h.createBooking)
		authed.GET("/bookings/:id", h.getBooking)
		authed.DELETE("/bookings/:id", h.deleteBooking)
		authed.GET("/bookings/:id/payments", h.listBookingPayments)
		authed.POST("/bookings/:id/payments", h.createPayment)

		authed.GET("/stats", h.getStats)
	}

	return router
}

func (h *Handler) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.stats.IncrRequestCount()
		c.Next()
	}
}

func (h *Handler) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.stats.Snapshot())
}

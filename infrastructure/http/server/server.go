package server

import (
	"dm-lab/auth"
	"dm-lab/contract"
	"dm-lab/errors"
	"dm-lab/observability"
	"dm-lab/services"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// LiveConfig tunes the live channel.
type LiveConfig struct {
	BufferSize   int
	WriteTimeout time.Duration
	PongTimeout  time.Duration
	MaxFrameSize int64
}

type ChatServer struct {
	log      *slog.Logger
	rooms    services.IRoomService
	verifier contract.TokenVerifier
	hub      contract.IHub
	metrics  *observability.Metrics
	live     LiveConfig
	upgrader websocket.Upgrader
}

func NewChatServer(
	log *slog.Logger,
	rooms services.IRoomService,
	verifier contract.TokenVerifier,
	hub contract.IHub,
	metrics *observability.Metrics,
	live LiveConfig,
) *ChatServer {
	return &ChatServer{
		log:      log,
		rooms:    rooms,
		verifier: verifier,
		hub:      hub,
		metrics:  metrics,
		live:     live,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler wires every route. The whole engine is traced by otelhttp.
func (s *ChatServer) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	chat := router.Group("/chat")
	chat.GET("/ws/:room_id", s.Live)

	rooms := chat.Group("/rooms", auth.Middleware(s.verifier))
	rooms.POST("", s.CreateOrGetRoom)
	rooms.GET("", s.ListMyRooms)
	rooms.GET("/:room_id/messages", s.ListMessages)
	rooms.POST("/:room_id/messages", s.SendMessage)
	rooms.PUT("/:room_id/pin", s.ToggleRoomPin)
	rooms.PUT("/:room_id/messages/:message_id/pin", s.ToggleMessagePin)
	rooms.DELETE("/:room_id", s.LeaveRoom)

	return otelhttp.NewHandler(router, "dm-lab")
}

func (s *ChatServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("Request served",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	}
}

// fail writes the error with the status of its taxonomy root.
// Infrastructure errors are logged and never leaked to the client.
func (s *ChatServer) fail(c *gin.Context, err error) {
	status := errors.MapToHTTPStatus(err)
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", "path", c.FullPath(), "error", err)
		c.AbortWithStatusJSON(status, gin.H{"error": "internal error"})
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

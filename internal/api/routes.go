package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"ame_support_backend/internal/auth"
	customerrors "ame_support_backend/internal/errors"
	"ame_support_backend/internal/models"
	"ame_support_backend/internal/services"
	"ame_support_backend/internal/wsocket"

	"github.com/gin-gonic/gin"
)

// Services groups everything the HTTP layer calls into.
type Services struct {
	Chat      *services.ChatSessionService
	Sessions  services.ChatServiceDB
	Resources *services.ResourceService
	Configs   *services.AdminConfigService
	Training  *services.TrainingService
	Analytics *services.AnalyticsService
	Users     *services.UserService
	Exporter  *services.TranscriptExporter
	Alerts    *wsocket.Handler
}

func SetupRoutes(r *gin.Engine, svc Services) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	staff := []models.UserRole{models.UserRoleAdmin, models.UserRoleManager}
	everyone := []models.UserRole{models.UserRoleAdmin, models.UserRoleManager, models.UserRoleViewer}
	authenticated := auth.AuthMiddleware(svc.Users)

	api := r.Group("/api")
	{
		api.POST("/chat", sendChatMessageHandler(svc.Chat))
		api.GET("/chat", getChatTranscriptHandler(svc.Chat))

		api.GET("/resources", listResourcesHandler(svc.Resources))
		api.POST("/resources", authenticated, auth.RequireRoles(staff...), createResourceHandler(svc.Resources))
		api.PUT("/resources/:id", authenticated, auth.RequireRoles(staff...), updateResourceHandler(svc.Resources))
		api.DELETE("/resources/:id", authenticated, auth.RequireRoles(staff...), deleteResourceHandler(svc.Resources))
	}

	admin := r.Group("/api/admin", authenticated)
	{
		admin.GET("/config", auth.RequireRoles(everyone...), listConfigsHandler(svc.Configs))
		admin.POST("/config", auth.RequireRoles(staff...), createConfigHandler(svc.Configs))
		admin.PUT("/config", auth.RequireRoles(staff...), updateConfigHandler(svc.Configs))
		admin.DELETE("/config", auth.RequireRoles(staff...), deleteConfigHandler(svc.Configs))

		admin.GET("/training", auth.RequireRoles(everyone...), listTrainingHandler(svc.Training))
		admin.POST("/training", auth.RequireRoles(staff...), createTrainingHandler(svc.Training))
		admin.PUT("/training", auth.RequireRoles(staff...), updateTrainingHandler(svc.Training))
		admin.DELETE("/training", auth.RequireRoles(staff...), deleteTrainingHandler(svc.Training))

		admin.GET("/sessions", auth.RequireRoles(everyone...), listSessionsHandler(svc.Sessions))
		admin.DELETE("/sessions", auth.RequireRoles(staff...), deleteSessionHandler(svc.Sessions))
		admin.GET("/sessions/:sessionId/export", auth.RequireRoles(staff...), exportSessionHandler(svc.Sessions, svc.Exporter))

		admin.GET("/analytics", auth.RequireRoles(everyone...), analyticsHandler(svc.Analytics))

		admin.GET("/users", auth.RequireRoles(staff...), listUsersHandler(svc.Users))
		admin.POST("/users", auth.RequireRoles(models.UserRoleAdmin), createUserHandler(svc.Users))
		admin.PUT("/users/:id", auth.RequireRoles(models.UserRoleAdmin), updateUserHandler(svc.Users))
		admin.DELETE("/users/:id", auth.RequireRoles(models.UserRoleAdmin), deleteUserHandler(svc.Users))

		if svc.Alerts != nil {
			admin.GET("/alerts/ws", auth.RequireRoles(staff...), func(c *gin.Context) {
				user, _ := auth.CurrentUser(c)
				svc.Alerts.HandleAlerts(c.Writer, c.Request, user)
			})
		}
	}
}

// toHTTPError maps service errors onto the HTTP error taxonomy.
func toHTTPError(err error) error {
	var validation *services.ValidationError
	switch {
	case errors.As(err, &validation):
		return customerrors.New400Error(validation.Message)
	case errors.Is(err, services.ErrEmptyMessage):
		return customerrors.New400Error("Message is required")
	case errors.Is(err, services.ErrSessionNotFound):
		return customerrors.New404Error("Session not found")
	case errors.Is(err, services.ErrResourceNotFound):
		return customerrors.New404Error("Resource not found")
	case errors.Is(err, services.ErrConfigNotFound):
		return customerrors.New404Error("Config not found")
	case errors.Is(err, services.ErrTrainingNotFound):
		return customerrors.New404Error("Training data not found")
	case errors.Is(err, services.ErrUserNotFound):
		return customerrors.New404Error("User not found")
	case errors.Is(err, services.ErrUserExists):
		return customerrors.New409Error("User with this email already exists", err)
	case errors.Is(err, services.ErrVersionConflict):
		return customerrors.New409Error("Session was updated concurrently, please retry", err)
	default:
		return customerrors.New500Error(err)
	}
}

func parseID(c *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		customerrors.HandleError(c, customerrors.New400Error("A valid id is required"))
		return 0, false
	}
	return uint(id), true
}

func sendChatMessageHandler(chatService *services.ChatSessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request services.ChatRequest
		if err := c.ShouldBindJSON(&request); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		if strings.TrimSpace(request.Message) == "" {
			customerrors.HandleError(c, customerrors.New400Error("Message is required"))
			return
		}
		if len(request.SessionID) > models.MaxSessionIDLength {
			customerrors.HandleError(c, customerrors.New400Error("Session ID is too long"))
			return
		}

		reply, err := chatService.SendMessage(c.Request.Context(), request)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, reply)
	}
}

func getChatTranscriptHandler(chatService *services.ChatSessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("sessionId")
		if sessionID == "" {
			customerrors.HandleError(c, customerrors.New400Error("Session ID is required"))
			return
		}

		session, err := chatService.GetTranscript(c.Request.Context(), sessionID)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, session)
	}
}

func listResourcesHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := services.ResourceQuery{
			Category: models.ResourceCategory(c.Query("category")),
			Severity: models.Severity(c.Query("severity")),
			Location: c.Query("location"),
		}
		if query.Category != "" && !query.Category.Valid() {
			customerrors.HandleError(c, customerrors.New400Error("Invalid category"))
			return
		}
		if query.Severity != "" && !query.Severity.Valid() {
			customerrors.HandleError(c, customerrors.New400Error("Invalid severity"))
			return
		}

		resources, err := resourceService.Query(c.Request.Context(), query)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"resources": resources})
	}
}

func createResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.ResourceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}

		resource, err := resourceService.Create(c.Request.Context(), input)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":    "Resource created successfully",
			"resourceId": resource.ID,
		})
	}
}

func updateResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}
		var input services.ResourceInput
		if err := c.ShouldBindJSON(&input); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}

		resource, err := resourceService.Update(c.Request.Context(), id, input)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"resource": resource})
	}
}

func deleteResourceHandler(resourceService *services.ResourceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, c.Param("id"))
		if !ok {
			return
		}
		if err := resourceService.Delete(c.Request.Context(), id); err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
	}
}

package api

import (
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"time"

	"ame_support_backend/internal/auth"
	customerrors "ame_support_backend/internal/errors"
	"ame_support_backend/internal/models"
	"ame_support_backend/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	defaultSessionPageSize = 50
	maxSessionPageSize     = 200
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func queryID(c *gin.Context) (uint, bool) {
	raw := c.Query("id")
	if raw == "" {
		customerrors.HandleError(c, customerrors.New400Error("ID is required"))
		return 0, false
	}
	return parseID(c, raw)
}

func listConfigsHandler(configService *services.AdminConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		configs, err := configService.List(c.Request.Context(), models.ConfigType(c.Query("type")))
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusOK, configs)
	}
}

func createConfigHandler(configService *services.AdminConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.AdminConfigInput
		if err := c.ShouldBindJSON(&input); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		config, err := configService.Create(c.Request.Context(), input)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusCreated, config)
	}
}

func updateConfigHandler(configService *services.AdminConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			ID uint `json:"id"`
			services.AdminConfigPatch
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		if request.ID == 0 {
			customerrors.HandleError(c, customerrors.New400Error("ID is required"))
			return
		}
		config, err := configService.Update(c.Request.Context(), request.ID, request.AdminConfigPatch)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusOK, config)
	}
}

func deleteConfigHandler(configService *services.AdminConfigService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := queryID(c)
		if !ok {
			return
		}
		if err := configService.Delete(c.Request.Context(), id); err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Config deleted successfully"})
	}
}

func listTrainingHandler(trainingService *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := services.TrainingFilter{
			Category: models.ResourceCategory(c.Query("category")),
			Language: c.Query("language"),
		}
		if raw := c.Query("approved"); raw != "" {
			approved, err := strconv.ParseBool(raw)
			if err != nil {
				customerrors.HandleError(c, customerrors.New400Error("approved must be true or false"))
				return
			}
			filter.Approved = &approved
		}

		items, err := trainingService.List(c.Request.Context(), filter)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusOK, items)
	}
}

func createTrainingHandler(trainingService *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input services.TrainingInput
		if err := c.ShouldBindJSON(&input); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		item, err := trainingService.Create(c.Request.Context(), input)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusCreated, item)
	}
}

func updateTrainingHandler(trainingService *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			ID uint `json:"id"`
			services.TrainingPatch
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		if request.ID == 0 {
			customerrors.HandleError(c, customerrors.New400Error("ID is required"))
			return
		}
		item, err := trainingService.Update(c.Request.Context(), request.ID, request.TrainingPatch)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusOK, item)
	}
}

func deleteTrainingHandler(trainingService *services.TrainingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := queryID(c)
		if !ok {
			return
		}
		if err := trainingService.Delete(c.Request.Context(), id); err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Training data deleted successfully"})
	}
}

// parseDateBound accepts RFC 3339 or a plain date. A plain date used as an
// upper bound covers the whole day.
func parseDateBound(raw string, upper bool) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	if upper {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return t, nil
}

func parseNonNegative(raw string, def int) (int, error) {
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return n, nil
}

func listSessionsHandler(sessionStore services.ChatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := parseNonNegative(c.Query("limit"), defaultSessionPageSize)
		if err != nil {
			customerrors.HandleError(c, customerrors.New400Error(err.Error()))
			return
		}
		if limit == 0 {
			limit = defaultSessionPageSize
		}
		if limit > maxSessionPageSize {
			limit = maxSessionPageSize
		}
		skip, err := parseNonNegative(c.Query("skip"), 0)
		if err != nil {
			customerrors.HandleError(c, customerrors.New400Error(err.Error()))
			return
		}

		filter := services.SessionFilter{Limit: limit, Skip: skip}
		if raw := c.Query("severity"); raw != "" {
			level, ok := models.ParseSeverity(raw)
			if !ok {
				customerrors.HandleError(c, customerrors.New400Error("Invalid severity"))
				return
			}
			filter.Severity = level
		}
		if filter.From, err = parseDateBound(c.Query("dateFrom"), false); err != nil {
			customerrors.HandleError(c, customerrors.New400Error(err.Error()))
			return
		}
		if filter.To, err = parseDateBound(c.Query("dateTo"), true); err != nil {
			customerrors.HandleError(c, customerrors.New400Error(err.Error()))
			return
		}

		sessions, total, err := sessionStore.ListSessions(c.Request.Context(), filter)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusOK, gin.H{
			"sessions": sessions,
			"pagination": gin.H{
				"total":   total,
				"limit":   limit,
				"skip":    skip,
				"hasMore": int64(skip+len(sessions)) < total,
			},
		})
	}
}

func deleteSessionHandler(sessionStore services.ChatServiceDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Query("sessionId")
		if sessionID == "" {
			customerrors.HandleError(c, customerrors.New400Error("Session ID is required"))
			return
		}
		if err := sessionStore.DeleteSession(c.Request.Context(), sessionID); err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Session deleted successfully"})
	}
}

func exportSessionHandler(sessionStore services.ChatServiceDB, exporter *services.TranscriptExporter) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")
		session, err := sessionStore.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		pdf, err := exporter.Export(session)
		if err != nil {
			customerrors.HandleError(c, customerrors.New500Error(err))
			return
		}
		c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
			"filename": "transcript-" + sessionID + ".pdf",
		}))
		c.Data(http.StatusOK, "application/pdf", pdf)
	}
}

func analyticsHandler(analyticsService *services.AnalyticsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := analyticsService.Summary(c.Request.Context(), c.Query("period"))
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		respondData(c, http.StatusOK, summary)
	}
}

func listUsersHandler(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := userService.List(c.Request.Context())
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"users": users})
	}
}

func createUserHandler(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Email    string          `json:"email"`
			Password string          `json:"password"`
			Role     models.UserRole `json:"role"`
		}
		if err := c.ShouldBindJSON(&request); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		user, err := userService.Create(c.Request.Context(), request.Email, request.Password, request.Role)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
	}
}

func updateUserHandler(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch services.UserPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Invalid request body"))
			return
		}
		user, err := userService.Update(c.Request.Context(), c.Param("id"), patch)
		if err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User updated successfully", "user": user})
	}
}

func deleteUserHandler(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if current, ok := auth.CurrentUser(c); ok && current.ID.String() == c.Param("id") {
			customerrors.HandleError(c, customerrors.New400Error("You cannot delete your own account"))
			return
		}
		if err := userService.Delete(c.Request.Context(), c.Param("id")); err != nil {
			customerrors.HandleError(c, toHTTPError(err))
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
	}
}

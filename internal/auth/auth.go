package auth

import (
	"errors"
	"net/http"
	"strings"

	customerrors "ame_support_backend/internal/errors"
	"ame_support_backend/internal/models"
	"ame_support_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

func SetupRoutes(r *gin.Engine, userService *services.UserService) {
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", loginHandler(userService))
		auth.GET("/verify", AuthMiddleware(userService), getUser)
	}
}

// AuthMiddleware resolves the bearer token to an active dashboard user and
// stores it under "user". Websocket upgrades pass the token as a query parameter.
func AuthMiddleware(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := zerolog.Ctx(c.Request.Context())

		var token string
		if websocket.IsWebSocketUpgrade(c.Request) {
			token = c.Query("token")
		} else {
			authHeader := c.GetHeader("Authorization")
			if authHeader == "" {
				customerrors.HandleError(c, customerrors.New401Error("Authorization header is required"))
				return
			}
			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || !strings.EqualFold(bearerToken[0], "Bearer") {
				customerrors.HandleError(c, customerrors.New401Error("Invalid authorization header"))
				return
			}
			token = bearerToken[1]
		}
		if token == "" {
			customerrors.HandleError(c, customerrors.New401Error("Token is required"))
			return
		}

		user, err := userService.VerifyToken(c.Request.Context(), token)
		if err != nil {
			log.Debug().Err(err).Msg("Rejected token")
			customerrors.HandleError(c, customerrors.New401Error("Invalid or expired token"))
			return
		}

		c.Set("user", user)
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			customerrors.HandleError(c, customerrors.New401Error("User not found in context"))
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		customerrors.HandleError(c, customerrors.New403Error())
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(userService *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			customerrors.HandleError(c, customerrors.New400Error("Email and password are required"))
			return
		}

		user, token, err := userService.Authenticate(c.Request.Context(), req.Email, req.Password)
		if errors.Is(err, services.ErrInvalidCredentials) {
			customerrors.HandleError(c, customerrors.New401Error("Invalid credentials"))
			return
		}
		if err != nil {
			customerrors.HandleError(c, customerrors.New500Error(err))
			return
		}

		zerolog.Ctx(c.Request.Context()).Info().Str("user_id", user.ID.String()).Msg("Dashboard login")
		c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
	}
}

func getUser(c *gin.Context) {
	user, exists := CurrentUser(c)
	if !exists {
		customerrors.HandleError(c, customerrors.New401Error("User not found in context"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

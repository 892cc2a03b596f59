// Package authapi implements the account endpoints: registration, login, and
// the current-user identity view.
package authapi

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/freqradio/freqradio/internal/auth"
	"github.com/freqradio/freqradio/internal/db/models"
	"github.com/freqradio/freqradio/internal/db/repositories"
	"github.com/freqradio/freqradio/internal/middleware"
)

// Validation limits for account fields.
const maxUsernameLength = 150

var (
	usernameRe = regexp.MustCompile(`^[\w.@+-]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Handlers holds the dependencies for the auth endpoints.
type Handlers struct {
	userRepo *repositories.UserRepository
}

// NewHandlers creates auth endpoint handlers.
func NewHandlers(userRepo *repositories.UserRepository) *Handlers {
	return &Handlers{userRepo: userRepo}
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// fieldErrors is the 400 body shape: one list of messages per failing field.
type fieldErrors map[string][]string

func (fe fieldErrors) add(field, message string) {
	fe[field] = append(fe[field], message)
}

// @Summary      Register account
// @Description  Create a new user account. Password must satisfy the strength policy.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      201  {object}  map[string]interface{}  "id, username, email"
// @Failure      400  {object}  map[string][]string     "field-level validation errors"
// @Router       /api/auth/register/ [post]
// RegisterHandler creates a user account.
// POST /api/auth/register/
func (h *Handlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		errs := fieldErrors{}

		switch {
		case req.Username == "":
			errs.add("username", "This field is required.")
		case len(req.Username) > maxUsernameLength:
			errs.add("username", "Ensure this field has no more than 150 characters.")
		case !usernameRe.MatchString(req.Username):
			errs.add("username", "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters.")
		}

		if req.Email != "" && !emailRe.MatchString(req.Email) {
			errs.add("email", "Enter a valid email address.")
		}

		if req.Password == "" {
			errs.add("password", "This field is required.")
		} else if err := auth.CheckPasswordPolicy(req.Password); err != nil {
			// Policy checks stop at the first violated rule, so exactly one
			// message comes back.
			errs.add("password", err.Error())
		}

		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, errs)
			return
		}

		ctx := c.Request.Context()

		if existing, err := h.userRepo.GetUserByUsername(ctx, req.Username); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		} else if existing != nil {
			errs.add("username", "A user with that username already exists.")
		}

		if req.Email != "" {
			if existing, err := h.userRepo.GetUserByEmail(ctx, req.Email); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
				return
			} else if existing != nil {
				errs.add("email", "A user with that email already exists.")
			}
		}

		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, errs)
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		user := &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: hash,
		}
		if err := h.userRepo.CreateUser(ctx, user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
		})
	}
}

// @Summary      Log in
// @Description  Exchange username and password for a session JWT.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "token"
// @Failure      401  {object}  map[string]interface{}  "invalid credentials"
// @Router       /api/auth/login/ [post]
// LoginHandler issues a session JWT for valid credentials.
// POST /api/auth/login/
func (h *Handlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		errs := fieldErrors{}
		if req.Username == "" {
			errs.add("username", "This field is required.")
		}
		if req.Password == "" {
			errs.add("password", "This field is required.")
		}
		if len(errs) > 0 {
			c.JSON(http.StatusBadRequest, errs)
			return
		}

		user, err := h.userRepo.GetUserByUsername(c.Request.Context(), req.Username)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		// Same response for unknown user and wrong password so the endpoint
		// does not reveal which usernames exist.
		if user == nil || !auth.VerifyPassword(req.Password, user.PasswordHash) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := auth.GenerateJWT(strconv.FormatInt(user.ID, 10), user.Username, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// @Summary      Current user
// @Description  Return the authenticated user's identity.
// @Tags         Authentication
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "id, username, email, is_admin"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Router       /api/auth/me/ [get]
// MeHandler returns the authenticated user.
// GET /api/auth/me/
func (h *Handlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := middleware.CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"is_admin": user.IsAdmin,
		})
	}
}

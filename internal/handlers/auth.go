package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"postify/internal/db"
	"postify/internal/middleware"
	"postify/internal/models"
	"postify/internal/services"
	"postify/internal/utils"
)

type AuthHandler struct {
	mailService *services.MailService
}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		mailService: services.NewMailService(),
	}
}

type registerInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a user, signs them in, and returns the user. Duplicate
// username/email surfaces as a field error, not a transport fault.
func (h *AuthHandler) Register(c *gin.Context) {
	var in registerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if errs := validateUser(in.Username, in.Email, in.Password); len(errs) > 0 {
		c.JSON(http.StatusOK, models.UserResponse{Errors: errs})
		return
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
	}

	if err := db.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Username and email both carry unique indexes; figure out
			// which one collided so the error lands on the right field.
			var count int64
			db.DB.Model(&models.User{}).Where("username = ?", in.Username).Count(&count)
			if count > 0 {
				c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
					{Field: "username", Message: "Sorry, this username already exists!"},
				}})
				return
			}
			c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
				{Field: "email", Message: "Sorry, this email already exists!"},
			}})
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserID, user.ID)
	session.Save()

	c.JSON(http.StatusOK, models.UserResponse{User: &user})
}

type loginInput struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in loginInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var user models.User
	err := db.DB.Where("username = ?", in.UsernameOrEmail).First(&user).Error
	if err != nil {
		err = db.DB.Where("email = ?", in.UsernameOrEmail).First(&user).Error
	}
	if err != nil {
		c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
			{Field: "usernameOrEmail", Message: "Sorry, this email/username does not exist."},
		}})
		return
	}

	if !utils.CheckPasswordHash(in.Password, user.Password) {
		c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
			{Field: "password", Message: "Sorry, the provided password is invalid."},
		}})
		return
	}

	session := sessions.Default(c)
	session.Set(middleware.SessionUserID, user.ID)
	session.Save()

	c.JSON(http.StatusOK, models.UserResponse{User: &user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{MaxAge: -1, Path: "/"})
	if err := session.Save(); err != nil {
		c.JSON(http.StatusOK, gin.H{"logout": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"logout": true})
}

// Me returns the authenticated user, errors otherwise. The email field stays
// visible here because the viewer is the user themselves.
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
			{Message: "Sorry, you aren't logged in."},
		}})
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{User: user})
}

type forgotPasswordInput struct {
	Email string `json:"email"`
}

// ForgotPassword issues a reset token and mails the change-password link.
// Always answers true so the endpoint doesn't leak which emails exist.
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var in forgotPasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var user models.User
	if err := db.DB.Where("email = ?", in.Email).First(&user).Error; err == nil {
		token := services.NewResetToken(user.ID)
		h.mailService.SendChangePasswordEmail(user.Email, token)
	}

	c.JSON(http.StatusOK, gin.H{"forgotPassword": true})
}

type changePasswordInput struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in changePasswordInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	userID, err := services.LookupResetToken(in.Token)
	if err != nil {
		c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
			{Field: "token", Message: "Your token is no longer valid."},
		}})
		return
	}

	var user models.User
	if err := db.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{
			{Field: "token", Message: "Sorry, the user no longer exists."},
		}})
		return
	}

	if fieldErr := validatePassword(in.NewPassword); fieldErr != nil {
		fieldErr.Field = "newPassword"
		c.JSON(http.StatusOK, models.UserResponse{Errors: []models.FieldError{*fieldErr}})
		return
	}

	hash, err := utils.HashPassword(in.NewPassword)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	if err := db.DB.Model(&user).Update("password", hash).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	// Sign the user in and burn the token.
	session := sessions.Default(c)
	session.Set(middleware.SessionUserID, user.ID)
	session.Save()
	services.ConsumeResetToken(in.Token)

	c.JSON(http.StatusOK, models.UserResponse{User: &user})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"postify/internal/db"
	"postify/internal/hcomment"
	"postify/internal/middleware"
	"postify/internal/models"
	"postify/internal/utils"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

type commentInput struct {
	PostID   uint   `json:"postId"`
	ParentID *uint  `json:"parentId"`
	Text     string `json:"text"`
}

// Create persists a new comment. Depth is computed server-side from the
// parent and never client-supplied, so forged depths can't enter the store.
// A parent that doesn't exist or belongs to another post rejects the comment
// before anything is written.
func (h *CommentHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in commentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	text := utils.SanitizeText(in.Text)
	if text == "" {
		c.JSON(http.StatusOK, models.CommentResponse{Errors: []models.FieldError{
			{Field: "text", Message: "The comment cannot be empty."},
		}})
		return
	}

	var parent *models.Comment
	if in.ParentID != nil {
		// Filtering by post id here is what enforces the same-post rule.
		var pc models.Comment
		if err := db.DB.Where("id = ? AND post_id = ?", *in.ParentID, in.PostID).First(&pc).Error; err != nil {
			c.JSON(http.StatusOK, models.CommentResponse{Errors: []models.FieldError{
				{Field: "parentId", Message: "The comment you are replying to is no longer valid."},
			}})
			return
		}
		parent = &pc
	}

	depth, err := hcomment.ChildDepth(parent)
	if err != nil {
		c.JSON(http.StatusOK, models.CommentResponse{Errors: []models.FieldError{
			{Field: "parentId", Message: "This thread is nested too deeply to reply to."},
		}})
		return
	}

	comment := models.Comment{
		PostID:   in.PostID,
		UserID:   user.ID,
		ParentID: in.ParentID,
		Text:     text,
		Depth:    depth,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	comment.User = *user

	c.JSON(http.StatusOK, models.CommentResponse{Comment: &comment})
}

type updateCommentInput struct {
	ID     uint   `json:"id"`
	PostID uint   `json:"postId"`
	Text   string `json:"text"`
}

// Update edits a comment's text. Depth and parent are immutable after
// creation; the update is scoped by author so only the owner can edit.
func (h *CommentHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in updateCommentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	text := utils.SanitizeText(in.Text)
	if text == "" {
		c.JSON(http.StatusOK, models.CommentResponse{Errors: []models.FieldError{
			{Field: "text", Message: "The comment cannot be empty."},
		}})
		return
	}

	res := db.DB.Model(&models.Comment{}).
		Where("id = ? AND user_id = ?", in.ID, user.ID).
		Update("text", text)
	if res.Error != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusOK, models.CommentResponse{Comment: nil})
		return
	}

	var comment models.Comment
	if err := db.DB.First(&comment, in.ID).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	comment.User = *user

	c.JSON(http.StatusOK, models.CommentResponse{Comment: &comment})
}

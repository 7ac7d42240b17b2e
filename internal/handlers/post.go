package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"postify/internal/db"
	"postify/internal/hcomment"
	"postify/internal/loader"
	"postify/internal/middleware"
	"postify/internal/models"
	"postify/internal/utils"
)

// PaginationMax caps the feed page size regardless of what the client asks for.
const PaginationMax = 50

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

// Posts serves the paginated feed: newest first, cursor = the createdAt of
// the last post of the previous page (unix milliseconds). One extra row is
// fetched to learn whether more pages exist.
func (h *PostHandler) Posts(c *gin.Context) {
	limit := utils.StringToInt(c.Query("limit"))
	if limit <= 0 {
		limit = 10
	}
	if limit > PaginationMax {
		limit = PaginationMax
	}
	limitPlusOne := limit + 1

	// Anonymous pages carry no viewer-specific vote status, so they can be
	// served from the hot cache for a short window.
	_, loggedIn := middleware.CurrentUser(c)
	cacheKey := fmt.Sprintf("posts:limit:%d:cursor:%s", limit, c.Query("cursor"))
	if !loggedIn {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if resp, ok := cached.(models.PostsResponse); ok {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	q := db.DB.Order("created_at DESC").Limit(limitPlusOne)
	if cursor := c.Query("cursor"); cursor != "" {
		ms := utils.StringToInt(cursor)
		q = q.Where("created_at < ?", time.UnixMilli(int64(ms)))
	}

	var posts []models.Post
	if err := q.Find(&posts).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	hasMore := len(posts) == limitPlusOne
	if hasMore {
		posts = posts[:limit]
	}

	if err := h.fillPostRelations(c, posts); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	for i := range posts {
		posts[i].TextSnippet = posts[i].Snippet()
		posts[i].Text = ""
	}

	resp := models.PostsResponse{Posts: posts, HasMore: hasMore}
	if !loggedIn {
		utils.GetCache().Set(cacheKey, resp, 1*time.Minute)
	}

	c.JSON(http.StatusOK, resp)
}

// fillPostRelations batch-loads creators and the viewer's vote status for a
// page of posts: one query per relation for the whole page, not per row.
func (h *PostHandler) fillPostRelations(c *gin.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	viewerID := uint(0)
	if user, ok := middleware.CurrentUser(c); ok {
		viewerID = user.ID
	}

	creatorIDs := make([]uint, len(posts))
	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		creatorIDs[i] = p.CreatorID
		postIDs[i] = p.ID
	}

	users, err := loader.NewUserLoader(db.DB).LoadMany(creatorIDs)
	if err != nil {
		return err
	}
	for i := range posts {
		if u, ok := users[posts[i].CreatorID]; ok {
			posts[i].Creator = u.Sanitized(viewerID)
		}
	}

	if viewerID != 0 {
		votes, err := loader.NewVoteStatusLoader(db.DB, viewerID).LoadMany(postIDs)
		if err != nil {
			return err
		}
		for i := range posts {
			if v, ok := votes[posts[i].ID]; ok {
				value := v
				posts[i].VoteStatus = &value
			}
		}
	}

	return nil
}

// Detail serves one post with its comments arranged hierarchically. Comments
// come back newest-first from the store and the forest preserves that order
// at every level.
func (h *PostHandler) Detail(c *gin.Context) {
	id := utils.StringToUint(c.Param("id"))

	var post models.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"post": nil})
		return
	}

	posts := []models.Post{post}
	if err := h.fillPostRelations(c, posts); err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	post = posts[0]
	post.TextHTML = utils.RenderMarkdown(post.Text)

	var comments []models.Comment
	if err := db.DB.Where("post_id = ?", id).Order("created_at DESC").Find(&comments).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	viewerID := uint(0)
	if user, ok := middleware.CurrentUser(c); ok {
		viewerID = user.ID
	}

	// One round-trip for every comment author on the page.
	authorIDs := make([]uint, len(comments))
	for i, cm := range comments {
		authorIDs[i] = cm.UserID
	}
	users, err := loader.NewUserLoader(db.DB).LoadMany(authorIDs)
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	for i := range comments {
		if u, ok := users[comments[i].UserID]; ok {
			comments[i].User = u.Sanitized(viewerID)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"post":      post,
		"hcomments": hcomment.BuildForest(comments),
	})
}

type postInput struct {
	Title string `json:"title"`
	Text  string `json:"text"`
}

func (h *PostHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in postInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	title := utils.SanitizeText(in.Title)
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	post := models.Post{
		Title:     title,
		Text:      in.Text,
		CreatorID: user.ID,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	post.Creator = *user

	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var in postInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Scoping the update by creator makes ownership part of the write; no
	// separate read-then-check window.
	res := db.DB.Model(&models.Post{}).
		Where("id = ? AND creator_id = ?", id, user.ID).
		Updates(map[string]interface{}{"title": utils.SanitizeText(in.Title), "text": in.Text})
	if res.Error != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusOK, gin.H{"post": nil})
		return
	}

	var post models.Post
	db.DB.First(&post, id)
	c.JSON(http.StatusOK, gin.H{"post": post})
}

func (h *PostHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	id := utils.StringToUint(c.Param("id"))

	var post models.Post
	if err := db.DB.First(&post, id).Error; err != nil {
		c.JSON(http.StatusOK, gin.H{"deletePost": false})
		return
	}

	if post.CreatorID != user.ID {
		// Ownership failure is a hard rejection, distinct from validation.
		c.JSON(http.StatusForbidden, gin.H{"error": "not-owner"})
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deletePost": true})
}

type voteInput struct {
	PostID uint `json:"postId"`
	Value  int  `json:"value"`
}

// Vote applies the user's vote to a post and maintains the denormalized
// points tally incrementally. The insert attempt against the (post_id,
// user_id) primary key is the existence check: no prior SELECT, so two
// concurrent first votes from the same user cannot both count.
func (h *PostHandler) Vote(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var in voteInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	// Only upvote or downvote by 1
	realVal := 1
	if in.Value == -1 {
		realVal = -1
	}

	var post models.Post
	if err := db.DB.First(&post, in.PostID).Error; err != nil {
		c.JSON(http.StatusOK, models.VoteResponse{
			Errors:       []models.FieldError{{Field: "postId", Message: "This post is no longer valid."}},
			IsSuccessful: false,
		})
		return
	}

	err := db.DB.Transaction(func(tx *gorm.DB) error {
		vote := models.Vote{PostID: in.PostID, UserID: user.ID, Value: realVal}

		// DoNothing keeps the transaction alive on conflict; zero rows
		// affected means this user already voted on this post.
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&vote)
		if res.Error != nil {
			return res.Error
		}

		delta := realVal
		if res.RowsAffected == 0 {
			var prev models.Vote
			if err := tx.Where("post_id = ? AND user_id = ?", in.PostID, user.ID).First(&prev).Error; err != nil {
				return err
			}

			// Re-voting the same value changes nothing.
			if prev.Value == realVal {
				return nil
			}

			if err := tx.Model(&models.Vote{}).
				Where("post_id = ? AND user_id = ?", in.PostID, user.ID).
				Update("value", realVal).Error; err != nil {
				return err
			}
			delta = realVal - prev.Value
		}

		// Apply the delta in place; never recompute the tally by aggregation.
		return tx.Model(&models.Post{}).
			Where("id = ?", in.PostID).
			UpdateColumn("points", gorm.Expr("points + ?", delta)).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Shouldn't happen with DoNothing, but keep the conflict
			// signal mapped to a shaped response rather than a fault.
			c.JSON(http.StatusOK, models.VoteResponse{IsSuccessful: true})
			return
		}
		c.JSON(http.StatusOK, models.VoteResponse{
			Errors:       []models.FieldError{{Field: "vote", Message: "Something went wrong with inserting the new vote."}},
			IsSuccessful: false,
		})
		return
	}

	c.JSON(http.StatusOK, models.VoteResponse{IsSuccessful: true})
}

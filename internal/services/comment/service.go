package comment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/thenoetrevino/paso-threads/internal/commenttree"
	"github.com/thenoetrevino/paso-threads/internal/models"
	"github.com/thenoetrevino/paso-threads/internal/types"
	userutil "github.com/thenoetrevino/paso-threads/internal/user"
)

// Service defines all comment-related business operations
type Service interface {
	// Read operations
	GetThread(ctx context.Context, taskID types.TaskID) ([]*models.Thread, error)
	GetReplies(ctx context.Context, taskID types.TaskID, parentID types.CommentID) ([]*models.Thread, error)
	GetComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID) (*models.Comment, error)
	ListComments(ctx context.Context, taskID types.TaskID) ([]models.Comment, error)

	// Write operations
	LoadComments(ctx context.Context, taskID types.TaskID, flat []models.Comment) error
	CreateComment(ctx context.Context, req CreateCommentRequest) (*models.Comment, error)
	UpdateComment(ctx context.Context, req UpdateCommentRequest) (*models.Comment, error)
	DeleteComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID) ([]types.CommentID, error)

	// Reactions
	LikeComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID, user types.UserID) (*models.Comment, error)
	UnlikeComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID, user types.UserID) (*models.Comment, error)
}

// CreateCommentRequest encapsulates all data needed to create a comment
type CreateCommentRequest struct {
	TaskID      types.TaskID
	ParentID    types.CommentID // Optional: empty means top-level comment
	Content     string
	Author      types.UserID // Optional: empty means current OS user
	Attachments []models.Attachment
}

// UpdateCommentRequest encapsulates all data needed to update a comment
// Fields with pointers are optional - nil means don't update
type UpdateCommentRequest struct {
	TaskID      types.TaskID
	CommentID   types.CommentID
	Content     *string
	Attachments *[]models.Attachment
}

// Limits bounds comment content; zero values fall back to the model defaults
type Limits struct {
	MaxCommentLength int
	MaxAttachments   int
}

// service implements Service interface
type service struct {
	store  *commenttree.Store
	limits Limits
	now    func() time.Time
	newID  func() string
}

// NewService creates a new comment service on top of store
func NewService(store *commenttree.Store, limits Limits) Service {
	if limits.MaxCommentLength <= 0 {
		limits.MaxCommentLength = models.DefaultMaxCommentLength
	}
	if limits.MaxAttachments <= 0 {
		limits.MaxAttachments = models.DefaultMaxAttachments
	}
	return &service{
		store:  store,
		limits: limits,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// CreateComment handles comment creation with validation and business rules
func (s *service) CreateComment(ctx context.Context, req CreateCommentRequest) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.validateCreateComment(req); err != nil {
		return nil, err
	}

	author := req.Author
	if author == "" {
		author = userutil.CurrentUser()
	}

	comment := models.Comment{
		ID:          types.CommentID(s.newID()),
		TaskID:      req.TaskID,
		ParentID:    req.ParentID,
		Content:     req.Content,
		Author:      author,
		CreatedAt:   s.now(),
		Attachments: s.stampAttachments(req.Attachments),
	}

	if err := s.store.AddComment(req.TaskID, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	slog.Info("comment created",
		"task_id", comment.TaskID,
		"comment_id", comment.ID,
		"parent_id", comment.ParentID,
		"author", comment.Author)

	return &comment, nil
}

// UpdateComment patches content and/or attachments and stamps UpdatedAt
func (s *service) UpdateComment(ctx context.Context, req UpdateCommentRequest) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.TaskID == "" {
		return nil, ErrEmptyTaskID
	}
	if req.CommentID == "" {
		return nil, ErrInvalidCommentID
	}
	if req.Content == nil && req.Attachments == nil {
		return nil, ErrEmptyUpdate
	}
	if req.Content != nil {
		if err := s.validateContent(*req.Content); err != nil {
			return nil, err
		}
	}

	patch := models.CommentPatch{Content: req.Content}
	if req.Attachments != nil {
		if err := s.validateAttachments(*req.Attachments); err != nil {
			return nil, err
		}
		attachments := s.stampAttachments(*req.Attachments)
		patch.Attachments = &attachments
	}
	updatedAt := s.now()
	patch.UpdatedAt = &updatedAt

	updated, err := s.store.UpdateComment(req.TaskID, req.CommentID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &updated, nil
}

// DeleteComment removes a comment with its replies
func (s *service) DeleteComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID) ([]types.CommentID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	if commentID == "" {
		return nil, ErrInvalidCommentID
	}

	removed, err := s.store.DeleteComment(taskID, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete comment: %w", err)
	}

	slog.Info("comment deleted", "task_id", taskID, "comment_id", commentID, "removed", len(removed))
	return removed, nil
}

// LikeComment records that user likes the comment
func (s *service) LikeComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID, user types.UserID) (*models.Comment, error) {
	if err := s.validateReaction(ctx, taskID, commentID, user); err != nil {
		return nil, err
	}
	liked, err := s.store.LikeComment(taskID, commentID, user)
	if err != nil {
		return nil, fmt.Errorf("failed to like comment: %w", err)
	}
	return &liked, nil
}

// UnlikeComment withdraws the like of user
func (s *service) UnlikeComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID, user types.UserID) (*models.Comment, error) {
	if err := s.validateReaction(ctx, taskID, commentID, user); err != nil {
		return nil, err
	}
	unliked, err := s.store.UnlikeComment(taskID, commentID, user)
	if err != nil {
		return nil, fmt.Errorf("failed to unlike comment: %w", err)
	}
	return &unliked, nil
}

// LoadComments replaces the whole forest of a task, typically after a bulk load
func (s *service) LoadComments(ctx context.Context, taskID types.TaskID, flat []models.Comment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if taskID == "" {
		return ErrEmptyTaskID
	}
	if err := s.store.SetForest(taskID, flat); err != nil {
		return fmt.Errorf("failed to load comments: %w", err)
	}
	return nil
}

// GetThread returns the ordered reply trees of a task
func (s *service) GetThread(ctx context.Context, taskID types.TaskID) ([]*models.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	return s.store.Forest(taskID), nil
}

// GetReplies returns the reply trees under one comment
func (s *service) GetReplies(ctx context.Context, taskID types.TaskID, parentID types.CommentID) ([]*models.Thread, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	if !parentID.IsRoot() {
		if _, err := s.store.Comment(taskID, parentID); err != nil {
			return nil, fmt.Errorf("failed to get replies: %w", err)
		}
	}
	return commenttree.BuildTree(s.store.Comments(taskID), parentID), nil
}

// GetComment returns a single comment
func (s *service) GetComment(ctx context.Context, taskID types.TaskID, commentID types.CommentID) (*models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c, err := s.store.Comment(taskID, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return &c, nil
}

// ListComments returns the flat collection of a task, depth-first
func (s *service) ListComments(ctx context.Context, taskID types.TaskID) ([]models.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if taskID == "" {
		return nil, ErrEmptyTaskID
	}
	return s.store.Comments(taskID), nil
}

// ============================================================================
// VALIDATION
// ============================================================================

func (s *service) validateCreateComment(req CreateCommentRequest) error {
	if req.TaskID == "" {
		return ErrEmptyTaskID
	}
	if err := s.validateContent(req.Content); err != nil {
		return err
	}
	return s.validateAttachments(req.Attachments)
}

func (s *service) validateContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}
	if utf8.RuneCountInString(content) > s.limits.MaxCommentLength {
		return ErrContentTooLong
	}
	return nil
}

func (s *service) validateAttachments(attachments []models.Attachment) error {
	if len(attachments) > s.limits.MaxAttachments {
		return ErrTooManyAttachments
	}
	for _, a := range attachments {
		if strings.TrimSpace(a.Name) == "" || strings.TrimSpace(a.URL) == "" {
			return ErrInvalidAttachment
		}
	}
	return nil
}

func (s *service) validateReaction(ctx context.Context, taskID types.TaskID, commentID types.CommentID, user types.UserID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if taskID == "" {
		return ErrEmptyTaskID
	}
	if commentID == "" {
		return ErrInvalidCommentID
	}
	if user == "" {
		return ErrInvalidUser
	}
	return nil
}

// stampAttachments assigns ids to attachments that have none
func (s *service) stampAttachments(attachments []models.Attachment) []models.Attachment {
	if len(attachments) == 0 {
		return nil
	}
	out := make([]models.Attachment, len(attachments))
	for i, a := range attachments {
		if a.ID == "" {
			a.ID = s.newID()
		}
		out[i] = a
	}
	return out
}

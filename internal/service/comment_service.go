// Package service contains the business logic between the HTTP handlers and
// the repositories.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	profileRepo repository.ProfileRepository
	// dedupReports switches report counting to distinct reporters instead of
	// one increment per report call.
	dedupReports bool
}

type CreateCommentInput struct {
	UserID   uint
	PostID   uint
	ParentID *uint
	Content  string
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

type ListCommentsInput struct {
	PostID uint
	Limit  int
	Offset int
	Sort   string
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	profileRepo repository.ProfileRepository,
	dedupReports bool,
) *CommentService {
	return &CommentService{
		commentRepo:  commentRepo,
		postRepo:     postRepo,
		profileRepo:  profileRepo,
		dedupReports: dedupReports,
	}
}

func validateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > models.MaxCommentLength {
		return models.NewValidationError(
			fmt.Sprintf("Comment too long (max %d characters)", models.MaxCommentLength))
	}
	return nil
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, models.NewInvalidParentError()
		}
		if parent.PostID != in.PostID || parent.IsDeleted {
			return nil, models.NewInvalidParentError()
		}
	}

	comment := &models.Comment{
		Content:  in.Content,
		UserID:   in.UserID,
		PostID:   in.PostID,
		ParentID: in.ParentID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	if in.ParentID != nil {
		if err := s.commentRepo.AdjustRepliesCount(ctx, *in.ParentID, 1); err != nil {
			return nil, err
		}
	}

	// Best-effort stat bump; the profile stats endpoint resyncs from
	// authoritative counts anyway.
	s.adjustCommentStat(ctx, in.UserID, 1)

	return s.commentRepo.GetByID(ctx, comment.ID)
}

func (s *CommentService) ListComments(ctx context.Context, in ListCommentsInput) ([]*models.Comment, int64, error) {
	if _, err := s.postRepo.GetByID(ctx, in.PostID, 0); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByPost(ctx, in.PostID, in.Limit, in.Offset, in.Sort)
}

func (s *CommentService) ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, int64, error) {
	return s.commentRepo.ListByAuthor(ctx, userID, limit, offset)
}

// UpdateComment edits a comment's content. Only the author may edit; there is
// no admin override for comments.
func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != in.UserID {
		return nil, models.NewForbiddenError("You can only edit your own comments")
	}
	if comment.IsDeleted {
		return nil, models.NewValidationError("Cannot edit a deleted comment")
	}
	if err := validateCommentContent(in.Content); err != nil {
		return nil, err
	}

	now := time.Now()
	comment.Content = in.Content
	comment.IsEdited = true
	comment.EditedAt = &now
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment soft-deletes: the row survives with placeholder content so
// reply threads keep their shape. Author-only, same as edits.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}

	if comment.UserID != in.UserID {
		return models.NewForbiddenError("You can only delete your own comments")
	}
	if comment.IsDeleted {
		return models.NewNotFoundError("Comment", in.CommentID)
	}

	now := time.Now()
	comment.Content = models.DeletedCommentPlaceholder
	comment.IsDeleted = true
	comment.DeletedAt = &now
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return err
	}

	if comment.ParentID != nil {
		if err := s.commentRepo.AdjustRepliesCount(ctx, *comment.ParentID, -1); err != nil {
			return err
		}
	}

	s.adjustCommentStat(ctx, comment.UserID, -1)

	return nil
}

// ToggleLike flips the caller's like on a comment and returns the new state
// with the recomputed like count.
func (s *CommentService) ToggleLike(ctx context.Context, commentID, userID uint) (bool, int64, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return false, 0, err
	}
	if comment.IsDeleted {
		return false, 0, models.NewNotFoundError("Comment", commentID)
	}

	liked, err := s.commentRepo.IsLiked(ctx, commentID, userID)
	if err != nil {
		return false, 0, err
	}

	if liked {
		err = s.commentRepo.RemoveLike(ctx, commentID, userID)
	} else {
		err = s.commentRepo.AddLike(ctx, commentID, userID)
	}
	if err != nil {
		return false, 0, err
	}

	count, err := s.commentRepo.CountLikes(ctx, commentID)
	if err != nil {
		return false, 0, err
	}

	comment.LikesCount = int(count)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return false, 0, err
	}

	return !liked, count, nil
}

// ReportComment records a report and hides the comment once the count reaches
// the threshold. Hiding is one-way; nothing restores IsApproved.
func (s *CommentService) ReportComment(ctx context.Context, commentID, reporterID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.IsDeleted {
		return nil, models.NewNotFoundError("Comment", commentID)
	}

	report := &models.CommentReport{CommentID: commentID, ReporterID: reporterID}
	if err := s.commentRepo.AddReport(ctx, report); err != nil {
		return nil, err
	}

	if s.dedupReports {
		distinct, err := s.commentRepo.CountDistinctReporters(ctx, commentID)
		if err != nil {
			return nil, err
		}
		comment.ReportCount = int(distinct)
	} else {
		comment.ReportCount++
	}

	observability.CommentReportsTotal.Inc()
	if comment.ReportCount >= models.ReportHideThreshold {
		if comment.IsApproved {
			observability.CommentsHiddenTotal.Inc()
		}
		comment.IsApproved = false
	}

	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *CommentService) adjustCommentStat(ctx context.Context, userID uint, delta int) {
	if s.profileRepo == nil {
		return
	}
	// Best-effort: a user without a profile keeps commenting, the bump is
	// simply skipped.
	profile, err := s.profileRepo.GetByUserID(ctx, userID)
	if err != nil {
		return
	}
	profile.Stats.CommentsCount += delta
	if profile.Stats.CommentsCount < 0 {
		profile.Stats.CommentsCount = 0
	}
	_ = s.profileRepo.Update(ctx, profile)
}

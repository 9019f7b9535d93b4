package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn                 func(context.Context, *models.Comment) error
	getByIDFn                func(context.Context, uint) (*models.Comment, error)
	updateFn                 func(context.Context, *models.Comment) error
	listByPostFn             func(context.Context, uint, int, int, string) ([]*models.Comment, int64, error)
	listByAuthorFn           func(context.Context, uint, int, int) ([]*models.Comment, int64, error)
	countByAuthorFn          func(context.Context, uint) (int64, error)
	adjustRepliesCountFn     func(context.Context, uint, int) error
	isLikedFn                func(context.Context, uint, uint) (bool, error)
	addLikeFn                func(context.Context, uint, uint) error
	removeLikeFn             func(context.Context, uint, uint) error
	countLikesFn             func(context.Context, uint) (int64, error)
	addReportFn              func(context.Context, *models.CommentReport) error
	countDistinctReportersFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint, limit, offset int, sort string) ([]*models.Comment, int64, error) {
	return s.listByPostFn(ctx, postID, limit, offset, sort)
}
func (s *commentRepoStub) ListByAuthor(ctx context.Context, userID uint, limit, offset int) ([]*models.Comment, int64, error) {
	return s.listByAuthorFn(ctx, userID, limit, offset)
}
func (s *commentRepoStub) CountByAuthor(ctx context.Context, userID uint) (int64, error) {
	return s.countByAuthorFn(ctx, userID)
}
func (s *commentRepoStub) AdjustRepliesCount(ctx context.Context, id uint, delta int) error {
	return s.adjustRepliesCountFn(ctx, id, delta)
}
func (s *commentRepoStub) IsLiked(ctx context.Context, commentID, userID uint) (bool, error) {
	return s.isLikedFn(ctx, commentID, userID)
}
func (s *commentRepoStub) AddLike(ctx context.Context, commentID, userID uint) error {
	return s.addLikeFn(ctx, commentID, userID)
}
func (s *commentRepoStub) RemoveLike(ctx context.Context, commentID, userID uint) error {
	return s.removeLikeFn(ctx, commentID, userID)
}
func (s *commentRepoStub) CountLikes(ctx context.Context, commentID uint) (int64, error) {
	return s.countLikesFn(ctx, commentID)
}
func (s *commentRepoStub) AddReport(ctx context.Context, report *models.CommentReport) error {
	return s.addReportFn(ctx, report)
}
func (s *commentRepoStub) CountDistinctReporters(ctx context.Context, commentID uint) (int64, error) {
	return s.countDistinctReportersFn(ctx, commentID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		updateFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		listByPostFn: func(_ context.Context, _ uint, _, _ int, _ string) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, int64, error) {
			return nil, 0, nil
		},
		countByAuthorFn:          func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		adjustRepliesCountFn:     func(_ context.Context, _ uint, _ int) error { return nil },
		isLikedFn:                func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		addLikeFn:                func(_ context.Context, _, _ uint) error { return nil },
		removeLikeFn:             func(_ context.Context, _, _ uint) error { return nil },
		countLikesFn:             func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		addReportFn:              func(_ context.Context, _ *models.CommentReport) error { return nil },
		countDistinctReportersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

func TestCommentService_CreateComment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewCommentService(noopCommentRepo(), noopPostRepo(), nil, false)
	ctx := context.Background()

	t.Run("empty content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1})
		assertValidationError(t, err)
	})

	t.Run("whitespace-only content", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, Content: "   "})
		assertValidationError(t, err)
	})

	t.Run("content at the limit is accepted", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", models.MaxCommentLength),
		})
		require.NoError(t, err)
	})

	t.Run("content one over the limit", func(t *testing.T) {
		t.Parallel()
		_, err := svc.CreateComment(ctx, CreateCommentInput{
			UserID:  1,
			PostID:  1,
			Content: strings.Repeat("x", models.MaxCommentLength+1),
		})
		assertValidationError(t, err)
	})

	t.Run("post not found propagates repo error", func(t *testing.T) {
		t.Parallel()
		repoErr := errors.New("post not found")
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, _, _ uint) (*models.Post, error) {
			return nil, repoErr
		}
		svc2 := NewCommentService(noopCommentRepo(), postRepo, nil, false)
		_, err := svc2.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 99, Content: "hi"})
		assert.ErrorIs(t, err, repoErr)
	})
}

func TestCommentService_CreateComment_ParentChecks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	parentID := uint(7)

	t.Run("missing parent", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, ParentID: &parentID, Content: "hi"})
		assertAppErrorCode(t, err, models.CodeInvalidParent)
	})

	t.Run("parent on a different post", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 2}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, ParentID: &parentID, Content: "hi"})
		assertAppErrorCode(t, err, models.CodeInvalidParent)
	})

	t.Run("soft-deleted parent", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, PostID: 1, IsDeleted: true}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		_, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, ParentID: &parentID, Content: "hi"})
		assertAppErrorCode(t, err, models.CodeInvalidParent)
	})

	t.Run("reply bumps the parent reply counter", func(t *testing.T) {
		t.Parallel()
		var adjustedID uint
		var adjustedDelta int
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			if id == parentID {
				return &models.Comment{ID: id, PostID: 1}, nil
			}
			return &models.Comment{ID: id, PostID: 1, ParentID: &parentID}, nil
		}
		commentRepo.createFn = func(_ context.Context, c *models.Comment) error {
			c.ID = 42
			return nil
		}
		commentRepo.adjustRepliesCountFn = func(_ context.Context, id uint, delta int) error {
			adjustedID = id
			adjustedDelta = delta
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		comment, err := svc.CreateComment(ctx, CreateCommentInput{UserID: 1, PostID: 1, ParentID: &parentID, Content: "hi"})
		require.NoError(t, err)
		assert.Equal(t, uint(42), comment.ID)
		assert.Equal(t, parentID, adjustedID)
		assert.Equal(t, 1, adjustedDelta)
	})
}

func TestCommentService_UpdateComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("non-owner cannot edit", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 10}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 1, CommentID: 1, Content: "new"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("admin role grants no override on comments", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 10}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		// UserID 1 being an admin is irrelevant here; comment edits are
		// strictly author-only and the service never consults the role.
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 1, CommentID: 1, Content: "new"})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("deleted comment cannot be edited", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 1, IsDeleted: true}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		_, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 1, CommentID: 1, Content: "new"})
		assertValidationError(t, err)
	})

	t.Run("owner edit marks is_edited and stamps edited_at", func(t *testing.T) {
		t.Parallel()
		var stored *models.Comment
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			if stored != nil {
				return stored, nil
			}
			return &models.Comment{ID: 1, UserID: 1, Content: "old"}, nil
		}
		commentRepo.updateFn = func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		comment, err := svc.UpdateComment(ctx, UpdateCommentInput{UserID: 1, CommentID: 1, Content: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "updated", comment.Content)
		assert.True(t, comment.IsEdited)
		require.NotNil(t, comment.EditedAt)
	})
}

func TestCommentService_DeleteComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("non-owner cannot delete", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 10}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, CommentID: 1})
		assertAppErrorCode(t, err, models.CodeForbidden)
	})

	t.Run("owner delete keeps the row with placeholder content", func(t *testing.T) {
		t.Parallel()
		var stored *models.Comment
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 1, Content: "hot take"}, nil
		}
		commentRepo.updateFn = func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, CommentID: 1})
		require.NoError(t, err)
		require.NotNil(t, stored)
		assert.Equal(t, models.DeletedCommentPlaceholder, stored.Content)
		assert.True(t, stored.IsDeleted)
		require.NotNil(t, stored.DeletedAt)
	})

	t.Run("deleting a reply decrements the parent counter", func(t *testing.T) {
		t.Parallel()
		parentID := uint(7)
		var adjustedDelta int
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 1, ParentID: &parentID}, nil
		}
		commentRepo.adjustRepliesCountFn = func(_ context.Context, id uint, delta int) error {
			assert.Equal(t, parentID, id)
			adjustedDelta = delta
			return nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, CommentID: 1})
		require.NoError(t, err)
		assert.Equal(t, -1, adjustedDelta)
	})

	t.Run("already deleted comment is not found", func(t *testing.T) {
		t.Parallel()
		commentRepo := noopCommentRepo()
		commentRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			return &models.Comment{ID: 1, UserID: 1, IsDeleted: true}, nil
		}
		svc := NewCommentService(commentRepo, noopPostRepo(), nil, false)
		err := svc.DeleteComment(ctx, DeleteCommentInput{UserID: 1, CommentID: 1})
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_ToggleLike(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Stateful stub so a double toggle exercises both branches.
	newLikeStore := func() *commentRepoStub {
		likes := map[uint]bool{}
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, UserID: 2, PostID: 1}, nil
		}
		repo.isLikedFn = func(_ context.Context, _, userID uint) (bool, error) {
			return likes[userID], nil
		}
		repo.addLikeFn = func(_ context.Context, _, userID uint) error {
			likes[userID] = true
			return nil
		}
		repo.removeLikeFn = func(_ context.Context, _, userID uint) error {
			delete(likes, userID)
			return nil
		}
		repo.countLikesFn = func(_ context.Context, _ uint) (int64, error) {
			return int64(len(likes)), nil
		}
		return repo
	}

	t.Run("like then unlike restores the original state", func(t *testing.T) {
		t.Parallel()
		svc := NewCommentService(newLikeStore(), noopPostRepo(), nil, false)

		liked, count, err := svc.ToggleLike(ctx, 1, 1)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, int64(1), count)

		liked, count, err = svc.ToggleLike(ctx, 1, 1)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, int64(0), count)
	})

	t.Run("deleted comment cannot be liked", func(t *testing.T) {
		t.Parallel()
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, id uint) (*models.Comment, error) {
			return &models.Comment{ID: id, IsDeleted: true}, nil
		}
		svc := NewCommentService(repo, noopPostRepo(), nil, false)
		_, _, err := svc.ToggleLike(ctx, 1, 1)
		assertAppErrorCode(t, err, models.CodeNotFound)
	})
}

func TestCommentService_ReportComment(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	// Stateful stub shared by the threshold scenarios: reports accumulate in
	// the stub and the stored comment carries its counters forward.
	newReportStore := func() (*commentRepoStub, *[]models.CommentReport) {
		reports := []models.CommentReport{}
		stored := &models.Comment{ID: 1, UserID: 2, PostID: 1, IsApproved: true}
		repo := noopCommentRepo()
		repo.getByIDFn = func(_ context.Context, _ uint) (*models.Comment, error) {
			copied := *stored
			return &copied, nil
		}
		repo.updateFn = func(_ context.Context, c *models.Comment) error {
			stored = c
			return nil
		}
		repo.addReportFn = func(_ context.Context, r *models.CommentReport) error {
			reports = append(reports, *r)
			return nil
		}
		repo.countDistinctReportersFn = func(_ context.Context, _ uint) (int64, error) {
			seen := map[uint]bool{}
			for _, r := range reports {
				seen[r.ReporterID] = true
			}
			return int64(len(seen)), nil
		}
		return repo, &reports
	}

	t.Run("four reports leave the comment visible", func(t *testing.T) {
		t.Parallel()
		repo, _ := newReportStore()
		svc := NewCommentService(repo, noopPostRepo(), nil, false)

		var comment *models.Comment
		var err error
		for reporter := uint(10); reporter < 14; reporter++ {
			comment, err = svc.ReportComment(ctx, 1, reporter)
			require.NoError(t, err)
		}
		assert.Equal(t, 4, comment.ReportCount)
		assert.True(t, comment.IsApproved)
	})

	t.Run("fifth report hides the comment", func(t *testing.T) {
		t.Parallel()
		repo, reports := newReportStore()
		svc := NewCommentService(repo, noopPostRepo(), nil, false)

		var comment *models.Comment
		var err error
		for reporter := uint(10); reporter < 15; reporter++ {
			comment, err = svc.ReportComment(ctx, 1, reporter)
			require.NoError(t, err)
		}
		assert.Equal(t, 5, comment.ReportCount)
		assert.False(t, comment.IsApproved)
		assert.Len(t, *reports, 5, "every report call writes an audit row")
	})

	t.Run("without dedup one user can hide a comment alone", func(t *testing.T) {
		t.Parallel()
		repo, _ := newReportStore()
		svc := NewCommentService(repo, noopPostRepo(), nil, false)

		var comment *models.Comment
		var err error
		for i := 0; i < 5; i++ {
			comment, err = svc.ReportComment(ctx, 1, 10)
			require.NoError(t, err)
		}
		assert.Equal(t, 5, comment.ReportCount)
		assert.False(t, comment.IsApproved)
	})

	t.Run("with dedup repeat reporters count once", func(t *testing.T) {
		t.Parallel()
		repo, reports := newReportStore()
		svc := NewCommentService(repo, noopPostRepo(), nil, true)

		var comment *models.Comment
		var err error
		for i := 0; i < 5; i++ {
			comment, err = svc.ReportComment(ctx, 1, 10)
			require.NoError(t, err)
		}
		assert.Equal(t, 1, comment.ReportCount)
		assert.True(t, comment.IsApproved)
		assert.Len(t, *reports, 5)
	})
}

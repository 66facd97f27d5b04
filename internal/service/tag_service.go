package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/phrazzld/taskcycle-api/internal/domain"
	"github.com/phrazzld/taskcycle-api/internal/store"
)

// TagService provides tag management and task/tag association.
// Both sides of an association must belong to the requesting user.
type TagService interface {
	// CreateTag creates a new tag owned by the given user.
	// Returns store.ErrTagNameExists if the user already has a tag with the
	// same name.
	CreateTag(ctx context.Context, userID uuid.UUID, name, color string) (*domain.Tag, error)

	// ListTags retrieves all tags owned by the user.
	ListTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error)

	// ListTaskTags retrieves the tags attached to one of the user's tasks.
	ListTaskTags(ctx context.Context, userID, taskID uuid.UUID) ([]*domain.Tag, error)

	// DeleteTag removes a tag, enforcing ownership. Task associations go with it.
	DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error

	// AttachTag links a tag to a task. Attaching an already-attached tag is a
	// no-op.
	AttachTag(ctx context.Context, userID, taskID, tagID uuid.UUID) error

	// DetachTag removes the link between a tag and a task. Detaching an
	// unattached tag is a no-op.
	DetachTag(ctx context.Context, userID, taskID, tagID uuid.UUID) error
}

// TagServiceImpl implements the TagService interface
type TagServiceImpl struct {
	tagStore  store.TagStore
	taskStore store.TaskStore
	logger    *slog.Logger
}

// Ensure TagServiceImpl implements TagService
var _ TagService = (*TagServiceImpl)(nil)

// NewTagService creates a new TagService.
func NewTagService(
	tagStore store.TagStore,
	taskStore store.TaskStore,
	logger *slog.Logger,
) *TagServiceImpl {
	return &TagServiceImpl{
		tagStore:  tagStore,
		taskStore: taskStore,
		logger:    logger.With("component", "tag_service"),
	}
}

// CreateTag creates a new tag owned by the given user.
func (s *TagServiceImpl) CreateTag(
	ctx context.Context,
	userID uuid.UUID,
	name, color string,
) (*domain.Tag, error) {
	tag, err := domain.NewTag(userID, name, color)
	if err != nil {
		s.logger.Debug("failed to create tag object",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	if err := s.tagStore.Create(ctx, tag); err != nil {
		if errors.Is(err, store.ErrTagNameExists) {
			s.logger.Debug("attempted to create duplicate tag",
				"user_id", userID,
				"name", name)
		} else {
			s.logger.Error("failed to save tag",
				"error", err,
				"user_id", userID)
		}
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.logger.Info("tag created successfully",
		"tag_id", tag.ID,
		"user_id", userID)

	return tag, nil
}

// ListTags retrieves all tags owned by the user.
func (s *TagServiceImpl) ListTags(ctx context.Context, userID uuid.UUID) ([]*domain.Tag, error) {
	tags, err := s.tagStore.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list tags",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// ListTaskTags retrieves the tags attached to one of the user's tasks.
func (s *TagServiceImpl) ListTaskTags(
	ctx context.Context,
	userID, taskID uuid.UUID,
) ([]*domain.Tag, error) {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return nil, err
	}

	tags, err := s.tagStore.ListByTask(ctx, taskID)
	if err != nil {
		s.logger.Error("failed to list task tags",
			"error", err,
			"task_id", taskID)
		return nil, fmt.Errorf("failed to list task tags: %w", err)
	}
	return tags, nil
}

// DeleteTag removes a tag, enforcing ownership.
func (s *TagServiceImpl) DeleteTag(ctx context.Context, userID, tagID uuid.UUID) error {
	if err := s.checkTagOwnership(ctx, userID, tagID); err != nil {
		return err
	}

	if err := s.tagStore.Delete(ctx, tagID); err != nil {
		s.logger.Error("failed to delete tag",
			"error", err,
			"tag_id", tagID)
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	s.logger.Info("tag deleted successfully",
		"tag_id", tagID,
		"user_id", userID)

	return nil
}

// AttachTag links a tag to a task.
func (s *TagServiceImpl) AttachTag(ctx context.Context, userID, taskID, tagID uuid.UUID) error {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.checkTagOwnership(ctx, userID, tagID); err != nil {
		return err
	}

	attached, err := s.tagStore.Attach(ctx, taskID, tagID)
	if err != nil {
		s.logger.Error("failed to attach tag",
			"error", err,
			"task_id", taskID,
			"tag_id", tagID)
		return fmt.Errorf("failed to attach tag: %w", err)
	}

	if attached {
		s.logger.Info("tag attached successfully",
			"task_id", taskID,
			"tag_id", tagID)
	}

	return nil
}

// DetachTag removes the link between a tag and a task.
func (s *TagServiceImpl) DetachTag(ctx context.Context, userID, taskID, tagID uuid.UUID) error {
	if err := s.checkTaskOwnership(ctx, userID, taskID); err != nil {
		return err
	}
	if err := s.checkTagOwnership(ctx, userID, tagID); err != nil {
		return err
	}

	detached, err := s.tagStore.Detach(ctx, taskID, tagID)
	if err != nil {
		s.logger.Error("failed to detach tag",
			"error", err,
			"task_id", taskID,
			"tag_id", tagID)
		return fmt.Errorf("failed to detach tag: %w", err)
	}

	if detached {
		s.logger.Info("tag detached successfully",
			"task_id", taskID,
			"tag_id", tagID)
	}

	return nil
}

func (s *TagServiceImpl) checkTaskOwnership(ctx context.Context, userID, taskID uuid.UUID) error {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to retrieve task: %w", err)
	}
	if task.UserID != userID {
		return ErrNotOwned
	}
	return nil
}

func (s *TagServiceImpl) checkTagOwnership(ctx context.Context, userID, tagID uuid.UUID) error {
	tag, err := s.tagStore.GetByID(ctx, tagID)
	if err != nil {
		return fmt.Errorf("failed to retrieve tag: %w", err)
	}
	if tag.UserID != userID {
		return ErrNotOwned
	}
	return nil
}

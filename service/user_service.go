package service

import (
	"context"
	"errors"
	"fmt"

	"caixinha/events"
	"caixinha/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// GetOrCreateUser retrieves an existing user or creates a new one with a
// zero balance. Creation is idempotent per external ID: the unique
// constraint on external_id prevents duplicates under concurrent first
// messages, and the loser of that race falls back to reading the row
// the winner committed.
func (s *userService) GetOrCreateUser(ctx context.Context, externalID string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, externalID)
	if err != nil {
		if errors.Is(err, ErrUserAlreadyExists) {
			// Lost the race to a concurrent first message. The row is
			// there now, the failed transaction just cannot see it.
			uow.Rollback()
			return s.getExisting(ctx, externalID)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{
		UserID:     user.ID,
		ExternalID: user.ExternalID,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return user, nil
}

func (s *userService) getExisting(ctx context.Context, externalID string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.BeginRead(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByExternalID(ctx, externalID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

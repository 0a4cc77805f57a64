package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contacts_api/internal/model"
	"contacts_api/internal/repository"
	"contacts_api/internal/utils"
)

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrEmailTaken      = errors.New("a contact with this email already exists")
	ErrPhoneTaken      = errors.New("a contact with this phone number already exists")
)

// ContactService defines operations for contacts
type ContactService interface {
	Create(ctx context.Context, userID int, req model.ContactRequest) (*model.Contact, error)
	GetByID(ctx context.Context, userID int, contactID int64) (*model.Contact, error)
	List(ctx context.Context, userID int) ([]model.Contact, error)
	Update(ctx context.Context, userID int, contactID int64, req model.ContactRequest) (*model.Contact, error)
	Delete(ctx context.Context, userID int, contactID int64) (*model.Contact, error)
	Search(ctx context.Context, keyword string) ([]model.Contact, error)
	UpcomingBirthdays(ctx context.Context, userID int, days int) ([]model.Contact, error)
}

type contactService struct {
	repo repository.ContactRepository
	now  func() time.Time
}

// NewContactService creates a new ContactService
func NewContactService(repo repository.ContactRepository) ContactService {
	return &contactService{repo: repo, now: time.Now}
}

// Create persists a new contact for the user after a global duplicate check.
// The pre-check is advisory; the unique constraint settles races at commit.
func (s *contactService) Create(ctx context.Context, userID int, req model.ContactRequest) (*model.Contact, error) {
	emailTaken, err := s.repo.EmailInUse(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check contact email: %w", err)
	}
	if emailTaken {
		return nil, ErrEmailTaken
	}

	phoneTaken, err := s.repo.PhoneInUse(ctx, req.PhoneNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check contact phone: %w", err)
	}
	if phoneTaken {
		return nil, ErrPhoneTaken
	}

	contact := &model.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    req.Birthday,
		Description: req.Description,
		UserID:      userID,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError(err)
		}
		return nil, fmt.Errorf("failed to create contact in repo: %w", err)
	}
	return contact, nil
}

// GetByID returns the user's contact or ErrContactNotFound
func (s *contactService) GetByID(ctx context.Context, userID int, contactID int64) (*model.Contact, error) {
	contact, err := s.repo.FindByID(ctx, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}
	return contact, nil
}

// List returns all contacts owned by the user
func (s *contactService) List(ctx context.Context, userID int) ([]model.Contact, error) {
	contacts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user contacts from repo: %w", err)
	}
	return contacts, nil
}

// Update replaces all mutable fields of the user's contact
func (s *contactService) Update(ctx context.Context, userID int, contactID int64, req model.ContactRequest) (*model.Contact, error) {
	contact := &model.Contact{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		Birthday:    req.Birthday,
		Description: req.Description,
	}

	updated, err := s.repo.Update(ctx, userID, contactID, contact)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, conflictError(err)
		}
		return nil, fmt.Errorf("failed to update contact in repo: %w", err)
	}
	if updated == nil {
		return nil, ErrContactNotFound
	}
	return updated, nil
}

// Delete removes the user's contact and returns its last known values
func (s *contactService) Delete(ctx context.Context, userID int, contactID int64) (*model.Contact, error) {
	deleted, err := s.repo.Delete(ctx, userID, contactID)
	if err != nil {
		return nil, fmt.Errorf("failed to delete contact in repo: %w", err)
	}
	if deleted == nil {
		return nil, ErrContactNotFound
	}
	return deleted, nil
}

// Search matches contacts across all users; an empty result is not an error
func (s *contactService) Search(ctx context.Context, keyword string) ([]model.Contact, error) {
	contacts, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return contacts, nil
}

// UpcomingBirthdays returns the user's contacts whose recurring birthday falls
// within the inclusive window [0, days] counted from today
func (s *contactService) UpcomingBirthdays(ctx context.Context, userID int, days int) ([]model.Contact, error) {
	contacts, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user contacts from repo: %w", err)
	}

	today := s.now()
	upcoming := make([]model.Contact, 0)
	for _, c := range contacts {
		if utils.BirthdayWithinDays(c.Birthday.Time, today, days) {
			upcoming = append(upcoming, c)
		}
	}
	return upcoming, nil
}

// conflictError translates a commit-time unique violation into the
// taken-field error. The repository names the losing column, so an update
// that keeps its own email is never blamed for an email conflict.
func conflictError(err error) error {
	if errors.Is(err, repository.ErrDuplicatePhone) {
		return ErrPhoneTaken
	}
	return ErrEmailTaken
}

package repository

import (
	"context"
	"errors"
	"fmt"

	"contacts_api/internal/model"

	"github.com/jackc/pgx/v5"
)

// ContactRepository defines operations for contact data.
// Lookups are scoped to the owning user unless noted otherwise; an absent or
// foreign-owned row yields (nil, nil), never another owner's data. List
// results are never nil: an empty result is an empty slice.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	FindByID(ctx context.Context, userID int, contactID int64) (*model.Contact, error)
	FindByEmail(ctx context.Context, userID int, email string) (*model.Contact, error)
	FindByPhone(ctx context.Context, userID int, phone string) (*model.Contact, error)
	FindByUser(ctx context.Context, userID int) ([]model.Contact, error)
	EmailInUse(ctx context.Context, email string) (bool, error)
	PhoneInUse(ctx context.Context, phone string) (bool, error)
	Search(ctx context.Context, keyword string) ([]model.Contact, error)
	Update(ctx context.Context, userID int, contactID int64, contact *model.Contact) (*model.Contact, error)
	Delete(ctx context.Context, userID int, contactID int64) (*model.Contact, error)
}

type contactRepository struct {
	db DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db DB) ContactRepository {
	return &contactRepository{db: db}
}

const contactColumns = `id, first_name, last_name, email, phone_number, birthday, description, user_id`

func scanContact(row pgx.Row) (*model.Contact, error) {
	c := &model.Contact{}
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Birthday.Time, &c.Description, &c.UserID,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Create inserts a new contact owned by contact.UserID
func (r *contactRepository) Create(ctx context.Context, c *model.Contact) error {
	sql := `INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, description, user_id)
            VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := r.db.QueryRow(ctx, sql,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday.Time, c.Description, c.UserID,
	).Scan(&c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateError(err)
		}
		return fmt.Errorf("failed to create contact: %w", err)
	}
	return nil
}

// FindByID retrieves a contact by its ID, scoped to the owning user
func (r *contactRepository) FindByID(ctx context.Context, userID int, contactID int64) (*model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1 AND user_id = $2`
	contact, err := scanContact(r.db.QueryRow(ctx, sql, contactID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("failed to find contact by ID: %w", err)
	}
	return contact, nil
}

// FindByEmail retrieves a contact with the given email among the user's own contacts
func (r *contactRepository) FindByEmail(ctx context.Context, userID int, email string) (*model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE email = $1 AND user_id = $2`
	contact, err := scanContact(r.db.QueryRow(ctx, sql, email, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}
	return contact, nil
}

// FindByPhone retrieves a contact with the given phone number among the user's own contacts
func (r *contactRepository) FindByPhone(ctx context.Context, userID int, phone string) (*model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE phone_number = $1 AND user_id = $2`
	contact, err := scanContact(r.db.QueryRow(ctx, sql, phone, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find contact by phone: %w", err)
	}
	return contact, nil
}

// FindByUser retrieves all contacts owned by the user in insertion order
func (r *contactRepository) FindByUser(ctx context.Context, userID int) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts WHERE user_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts by user: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// EmailInUse reports whether any contact, regardless of owner, has this email.
// The check mirrors the global unique constraint on the column.
func (r *contactRepository) EmailInUse(ctx context.Context, email string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM contacts WHERE email = $1)`
	if err := r.db.QueryRow(ctx, sql, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contact email: %w", err)
	}
	return exists, nil
}

// PhoneInUse reports whether any contact, regardless of owner, has this phone number
func (r *contactRepository) PhoneInUse(ctx context.Context, phone string) (bool, error) {
	var exists bool
	sql := `SELECT EXISTS (SELECT 1 FROM contacts WHERE phone_number = $1)`
	if err := r.db.QueryRow(ctx, sql, phone).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check contact phone: %w", err)
	}
	return exists, nil
}

// Search retrieves contacts across all users whose first name, last name or
// email contains the keyword, case-insensitively. An empty keyword matches
// every contact. The keyword is not escaped, so % and _ act as ILIKE
// wildcards rather than literals.
func (r *contactRepository) Search(ctx context.Context, keyword string) ([]model.Contact, error) {
	sql := `SELECT ` + contactColumns + ` FROM contacts
            WHERE first_name ILIKE '%' || $1 || '%'
               OR last_name ILIKE '%' || $1 || '%'
               OR email ILIKE '%' || $1 || '%'
            ORDER BY id`
	rows, err := r.db.Query(ctx, sql, keyword)
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	defer rows.Close()
	return collectContacts(rows)
}

// Update overwrites all mutable fields of the contact in one statement.
// The ownership check and the write are atomic: no field changes unless the
// id+owner lookup matches a row.
func (r *contactRepository) Update(ctx context.Context, userID int, contactID int64, c *model.Contact) (*model.Contact, error) {
	sql := `UPDATE contacts
            SET first_name = $1, last_name = $2, email = $3, phone_number = $4, birthday = $5, description = $6
            WHERE id = $7 AND user_id = $8
            RETURNING ` + contactColumns
	updated, err := scanContact(r.db.QueryRow(ctx, sql,
		c.FirstName, c.LastName, c.Email, c.PhoneNumber, c.Birthday.Time, c.Description,
		contactID, userID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found or not owned
		}
		if isUniqueViolation(err) {
			return nil, duplicateError(err)
		}
		return nil, fmt.Errorf("failed to update contact: %w", err)
	}
	return updated, nil
}

// Delete removes the contact and returns its last known values
func (r *contactRepository) Delete(ctx context.Context, userID int, contactID int64) (*model.Contact, error) {
	sql := `DELETE FROM contacts WHERE id = $1 AND user_id = $2 RETURNING ` + contactColumns
	deleted, err := scanContact(r.db.QueryRow(ctx, sql, contactID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // Not found or not owned
		}
		return nil, fmt.Errorf("failed to delete contact: %w", err)
	}
	return deleted, nil
}

// collectContacts drains the rows into a slice. The result is never nil: an
// empty query serializes as an empty JSON array, not null.
func collectContacts(rows pgx.Rows) ([]model.Contact, error) {
	contacts := []model.Contact{}
	for rows.Next() {
		var c model.Contact
		if err := rows.Scan(
			&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
			&c.Birthday.Time, &c.Description, &c.UserID,
		); err != nil {
			return nil, fmt.Errorf("failed to scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact rows: %w", err)
	}
	return contacts, nil
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"contacts_api/internal/model"
	"contacts_api/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeContactRepo is an in-memory ContactRepository enforcing the same global
// unique constraints as the real schema.
type fakeContactRepo struct {
	contacts map[int64]*model.Contact
	nextID   int64
}

func newFakeContactRepo() *fakeContactRepo {
	return &fakeContactRepo{contacts: make(map[int64]*model.Contact), nextID: 1}
}

func (f *fakeContactRepo) Create(_ context.Context, c *model.Contact) error {
	for _, existing := range f.contacts {
		if existing.Email == c.Email {
			return repository.ErrDuplicateEmail
		}
		if existing.PhoneNumber == c.PhoneNumber {
			return repository.ErrDuplicatePhone
		}
	}
	c.ID = f.nextID
	f.nextID++
	stored := *c
	f.contacts[c.ID] = &stored
	return nil
}

func (f *fakeContactRepo) FindByID(_ context.Context, userID int, contactID int64) (*model.Contact, error) {
	c, ok := f.contacts[contactID]
	if !ok || c.UserID != userID {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (f *fakeContactRepo) FindByEmail(_ context.Context, userID int, email string) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.UserID == userID && c.Email == email {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) FindByPhone(_ context.Context, userID int, phone string) (*model.Contact, error) {
	for _, c := range f.contacts {
		if c.UserID == userID && c.PhoneNumber == phone {
			copied := *c
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeContactRepo) FindByUser(_ context.Context, userID int) ([]model.Contact, error) {
	out := []model.Contact{}
	for id := int64(1); id < f.nextID; id++ {
		if c, ok := f.contacts[id]; ok && c.UserID == userID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContactRepo) EmailInUse(_ context.Context, email string) (bool, error) {
	for _, c := range f.contacts {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContactRepo) PhoneInUse(_ context.Context, phone string) (bool, error) {
	for _, c := range f.contacts {
		if c.PhoneNumber == phone {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeContactRepo) Search(_ context.Context, keyword string) ([]model.Contact, error) {
	kw := strings.ToLower(keyword)
	out := []model.Contact{}
	for id := int64(1); id < f.nextID; id++ {
		c, ok := f.contacts[id]
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(c.FirstName), kw) ||
			strings.Contains(strings.ToLower(c.LastName), kw) ||
			strings.Contains(strings.ToLower(c.Email), kw) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeContactRepo) Update(_ context.Context, userID int, contactID int64, c *model.Contact) (*model.Contact, error) {
	existing, ok := f.contacts[contactID]
	if !ok || existing.UserID != userID {
		return nil, nil
	}
	for id, other := range f.contacts {
		if id == contactID {
			continue
		}
		if other.Email == c.Email {
			return nil, repository.ErrDuplicateEmail
		}
		if other.PhoneNumber == c.PhoneNumber {
			return nil, repository.ErrDuplicatePhone
		}
	}
	existing.FirstName = c.FirstName
	existing.LastName = c.LastName
	existing.Email = c.Email
	existing.PhoneNumber = c.PhoneNumber
	existing.Birthday = c.Birthday
	existing.Description = c.Description
	copied := *existing
	return &copied, nil
}

func (f *fakeContactRepo) Delete(_ context.Context, userID int, contactID int64) (*model.Contact, error) {
	existing, ok := f.contacts[contactID]
	if !ok || existing.UserID != userID {
		return nil, nil
	}
	delete(f.contacts, contactID)
	return existing, nil
}

func newTestContactService(repo repository.ContactRepository, today time.Time) *contactService {
	return &contactService{repo: repo, now: func() time.Time { return today }}
}

func contactReq(first, email, phone string, birthday model.Date) model.ContactRequest {
	return model.ContactRequest{
		FirstName:   first,
		LastName:    "Doe",
		Email:       email,
		PhoneNumber: phone,
		Birthday:    birthday,
	}
}

func TestContactService_CreateAndGetRoundTrip(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	req := model.ContactRequest{
		FirstName:   "John",
		LastName:    "Doe",
		Email:       "john@example.com",
		PhoneNumber: "+123",
		Birthday:    model.NewDate(1990, time.June, 15),
		Description: "college friend",
	}

	created, err := svc.Create(context.Background(), 1, req)
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.GetByID(context.Background(), 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, req.FirstName, got.FirstName)
	assert.Equal(t, req.LastName, got.LastName)
	assert.Equal(t, req.Email, got.Email)
	assert.Equal(t, req.PhoneNumber, got.PhoneNumber)
	assert.Equal(t, req.Birthday, got.Birthday)
	assert.Equal(t, req.Description, got.Description)
}

func TestContactService_OwnershipIsolation(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	// Another owner can neither read, update nor delete the contact
	_, err = svc.GetByID(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = svc.Update(ctx, 2, created.ID, contactReq("Hijack", "other@example.com", "+9", model.NewDate(1990, time.June, 15)))
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = svc.Delete(ctx, 2, created.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	// The owner still sees the untouched contact
	got, err := svc.GetByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", got.FirstName)
}

func TestContactService_Create_DuplicateEmail(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	// Same email, different owner: uniqueness is global
	_, err = svc.Create(ctx, 2, contactReq("Johnny", "john@example.com", "+2", model.NewDate(1991, time.July, 1)))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestContactService_Create_DuplicatePhone(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	_, err = svc.Create(ctx, 1, contactReq("Jane", "jane@example.com", "+1", model.NewDate(1992, time.March, 3)))
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

// precheckBlindRepo hides existing rows from the pre-check so the create
// reaches the constraint, mimicking two racing writers.
type precheckBlindRepo struct {
	*fakeContactRepo
}

func (r *precheckBlindRepo) EmailInUse(context.Context, string) (bool, error) {
	return false, nil
}

func (r *precheckBlindRepo) PhoneInUse(context.Context, string) (bool, error) {
	return false, nil
}

func TestContactService_Create_ConstraintWinsRace(t *testing.T) {
	repo := &precheckBlindRepo{newFakeContactRepo()}
	svc := NewContactService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	// Pre-check misses the first row; the duplicate surfaces at commit time
	// and the constraint name still attributes it to the right field
	_, err = svc.Create(ctx, 1, contactReq("Johnny", "john@example.com", "+2", model.NewDate(1991, time.July, 1)))
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Create(ctx, 1, contactReq("Johnny", "johnny@example.com", "+1", model.NewDate(1991, time.July, 1)))
	assert.ErrorIs(t, err, ErrPhoneTaken)
}

func TestContactService_Update_PhoneConflictKeepsOwnEmail(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, contactReq("Jane", "jane@example.com", "+2", model.NewDate(1992, time.March, 3)))
	require.NoError(t, err)

	// The update keeps the contact's own email, so only the phone conflicts.
	// The conflict must name the phone, not the unchanged email.
	_, err = svc.Update(ctx, 1, created.ID, contactReq("John", "john@example.com", "+2", model.NewDate(1990, time.June, 15)))
	assert.ErrorIs(t, err, ErrPhoneTaken)
	assert.NotErrorIs(t, err, ErrEmailTaken)
}

func TestContactService_List_EmptyIsEmptySlice(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	contacts, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.NotNil(t, contacts)
	assert.Empty(t, contacts)
}

func TestContactService_Update_NotFoundIsNoOp(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	_, err = svc.Update(ctx, 1, created.ID+100, contactReq("Ghost", "ghost@example.com", "+9", model.NewDate(1990, time.June, 15)))
	assert.ErrorIs(t, err, ErrContactNotFound)

	// Storage unchanged
	got, err := svc.GetByID(ctx, 1, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "John", got.FirstName)
	assert.Equal(t, "john@example.com", got.Email)
}

func TestContactService_Update_FullReplace(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, 1, created.ID, model.ContactRequest{
		FirstName:   "Johnny",
		LastName:    "Doeson",
		Email:       "johnny@example.com",
		PhoneNumber: "+10",
		Birthday:    model.NewDate(1990, time.July, 16),
		Description: "renamed",
	})
	require.NoError(t, err)
	assert.Equal(t, "Johnny", updated.FirstName)
	assert.Equal(t, "Doeson", updated.LastName)
	assert.Equal(t, "johnny@example.com", updated.Email)
	assert.Equal(t, "+10", updated.PhoneNumber)
	assert.Equal(t, model.NewDate(1990, time.July, 16), updated.Birthday)
	assert.Equal(t, "renamed", updated.Description)
}

func TestContactService_DeleteThenGet(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	created, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	deleted, err := svc.Delete(ctx, 1, created.ID)
	require.NoError(t, err)
	// The deleted entity's fields are still readable
	assert.Equal(t, "John", deleted.FirstName)

	_, err = svc.GetByID(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)

	_, err = svc.Delete(ctx, 1, created.ID)
	assert.ErrorIs(t, err, ErrContactNotFound)
}

func TestContactService_Search(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("John", "john@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, contactReq("Johanna", "johanna@example.com", "+2", model.NewDate(1991, time.July, 1)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 2, contactReq("Mary", "mary@example.com", "+3", model.NewDate(1992, time.August, 2)))
	require.NoError(t, err)

	// Case-insensitive and across all owners
	upper, err := svc.Search(ctx, "JOH")
	require.NoError(t, err)
	lower, err := svc.Search(ctx, "joh")
	require.NoError(t, err)
	assert.Equal(t, upper, lower)
	assert.Len(t, upper, 2)

	// Empty keyword matches everything
	all, err := svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	// No match is an empty result, not an error
	none, err := svc.Search(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestContactService_UpcomingBirthdays(t *testing.T) {
	repo := newFakeContactRepo()
	today := time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)
	svc := newTestContactService(repo, today)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("Today", "today@example.com", "+1", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, contactReq("NextWeek", "nextweek@example.com", "+2", model.NewDate(1990, time.June, 21)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, contactReq("FarAway", "faraway@example.com", "+3", model.NewDate(1990, time.November, 1)))
	require.NoError(t, err)
	// Another owner's contact must never leak into the window
	_, err = svc.Create(ctx, 2, contactReq("Foreign", "foreign@example.com", "+4", model.NewDate(1990, time.June, 15)))
	require.NoError(t, err)

	zero, err := svc.UpcomingBirthdays(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, zero, 1)
	assert.Equal(t, "Today", zero[0].FirstName)

	week, err := svc.UpcomingBirthdays(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, "Today", week[0].FirstName)
	assert.Equal(t, "NextWeek", week[1].FirstName)
}

func TestContactService_UpcomingBirthdays_YearWrap(t *testing.T) {
	repo := newFakeContactRepo()
	today := time.Date(2025, time.December, 28, 0, 0, 0, 0, time.UTC)
	svc := newTestContactService(repo, today)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("DecThirty", "dec30@example.com", "+1", model.NewDate(1985, time.December, 30)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, contactReq("JanSecond", "jan2@example.com", "+2", model.NewDate(1985, time.January, 2)))
	require.NoError(t, err)
	_, err = svc.Create(ctx, 1, contactReq("JanTenth", "jan10@example.com", "+3", model.NewDate(1985, time.January, 10)))
	require.NoError(t, err)

	week, err := svc.UpcomingBirthdays(ctx, 1, 7)
	require.NoError(t, err)
	require.Len(t, week, 2)
	assert.Equal(t, "DecThirty", week[0].FirstName)
	assert.Equal(t, "JanSecond", week[1].FirstName)
}

func TestContactService_UpcomingBirthdays_LeapDay(t *testing.T) {
	repo := newFakeContactRepo()
	// 2025 is not a leap year; the Feb 29 birthday counts as Mar 1
	today := time.Date(2025, time.February, 27, 0, 0, 0, 0, time.UTC)
	svc := newTestContactService(repo, today)
	ctx := context.Background()

	_, err := svc.Create(ctx, 1, contactReq("LeapBaby", "leap@example.com", "+1", model.NewDate(1996, time.February, 29)))
	require.NoError(t, err)

	window, err := svc.UpcomingBirthdays(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, window, 1)
	assert.Equal(t, "LeapBaby", window[0].FirstName)

	tight, err := svc.UpcomingBirthdays(ctx, 1, 1)
	require.NoError(t, err)
	assert.Empty(t, tight)
}

func TestContactService_UpcomingBirthdays_EmptyIsSuccess(t *testing.T) {
	repo := newFakeContactRepo()
	svc := NewContactService(repo)

	result, err := svc.UpcomingBirthdays(context.Background(), 1, 7)
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

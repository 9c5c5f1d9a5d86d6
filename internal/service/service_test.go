package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roombooking/internal/domain"
	"roombooking/internal/repo"
	"roombooking/internal/service"
	"roombooking/internal/testutil"
)

type fixture struct {
	db       *gorm.DB
	auth     *service.AuthService
	bookings *service.BookingService
	users    *service.UserService
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	db := testutil.NewDB(t)
	ur := repo.NewUserRepo(db)
	br := repo.NewBookingRepo(db)
	return fixture{
		db:       db,
		auth:     service.NewAuthService(ur),
		bookings: service.NewBookingService(br, zap.NewNop()),
		users:    service.NewUserService(ur, zap.NewNop()),
	}
}

func TestAuthorize(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, f.db, "Ada", domain.RoleAdmin)
	user := testutil.SeedUser(t, f.db, "Uma", domain.RoleUser)

	u, err := f.auth.Authorize(ctx, admin.ID, domain.RoleSet{domain.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	_, err = f.auth.Authorize(ctx, user.ID, domain.RoleSet{domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)
	assert.EqualError(t, err, "Forbidden. Requires admin role, but user's role is 'user'")

	u, err = f.auth.Authorize(ctx, user.ID, domain.RoleSet{domain.RoleOwner, domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, user.ID, u.ID)

	_, err = f.auth.Authorize(ctx, 9999, domain.RoleSet{domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrUnknownCaller)
}

func TestAuthorizeSeesRoleChangeImmediately(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, f.db, "Ada", domain.RoleAdmin)
	owner := testutil.SeedUser(t, f.db, "Otto", domain.RoleOwner)

	_, err := f.auth.Authorize(ctx, owner.ID, domain.RoleSet{domain.RoleOwner})
	require.NoError(t, err)

	_, err = f.users.ChangeRole(ctx, &admin, owner.ID, "user")
	require.NoError(t, err)

	_, err = f.auth.Authorize(ctx, owner.ID, domain.RoleSet{domain.RoleOwner})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)
}

func TestCreateBookingBackToBackAndConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := testutil.SeedUser(t, f.db, "Uma", domain.RoleUser)
	u2 := testutil.SeedUser(t, f.db, "Ulf", domain.RoleUser)

	list, err := f.bookings.Create(ctx, &u1, "2025-01-10T09:00:00Z", "2025-01-10T10:00:00Z")
	require.NoError(t, err)
	require.Len(t, list, 1)

	list, err = f.bookings.Create(ctx, &u2, "2025-01-10T10:00:00Z", "2025-01-10T11:00:00Z")
	require.NoError(t, err, "back-to-back is allowed")
	require.Len(t, list, 2)
	assert.Equal(t, "Uma", list[0].UserName)
	assert.Equal(t, "Ulf", list[1].UserName)

	_, err = f.bookings.Create(ctx, &u2, "2025-01-10T09:30:00Z", "2025-01-10T10:30:00Z")
	assert.ErrorIs(t, err, domain.ErrBookingConflict)

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2, "rejected booking must not be stored")
}

func TestCreateBookingRejectsBadInterval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "Uma", domain.RoleUser)

	cases := [][2]string{
		{"", "2025-01-10T10:00:00Z"},
		{"not a date", "2025-01-10T10:00:00Z"},
		{"2025-01-10T10:00:00Z", "2025-01-10T10:00:00Z"},
		{"2025-01-10T11:00:00Z", "2025-01-10T10:00:00Z"},
	}
	for _, c := range cases {
		_, err := f.bookings.Create(ctx, &u, c[0], c[1])
		assert.ErrorIs(t, err, domain.ErrInvalidInterval, "%q..%q", c[0], c[1])
	}
	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateBookingConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	const n = 6
	users := make([]domain.User, n)
	for i := range users {
		users[i] = testutil.SeedUser(t, f.db, "racer", domain.RoleUser)
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := range users {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.bookings.Create(ctx, &users[i], "2025-03-01T09:00:00Z", "2025-03-01T10:00:00Z")
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		var de *domain.Error
		require.ErrorAs(t, err, &de)
		assert.Equal(t, domain.KindConflict, de.Kind)
	}
	assert.Equal(t, 1, ok)

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteBookingOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := testutil.SeedUser(t, f.db, "Uma", domain.RoleUser)
	u2 := testutil.SeedUser(t, f.db, "Ulf", domain.RoleUser)
	owner := testutil.SeedUser(t, f.db, "Otto", domain.RoleOwner)

	list, err := f.bookings.Create(ctx, &u1, "2025-01-10T09:00:00Z", "2025-01-10T10:00:00Z")
	require.NoError(t, err)
	id := list[0].ID

	err = f.bookings.Delete(ctx, &u2, id)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.EqualError(t, err, "You can only delete your own bookings")

	assert.ErrorIs(t, f.bookings.Delete(ctx, &owner, 9999), domain.ErrBookingNotFound)
	assert.ErrorIs(t, f.bookings.Delete(ctx, &owner, 0), domain.ErrInvalidBookingID)

	require.NoError(t, f.bookings.Delete(ctx, &owner, id))
	assert.ErrorIs(t, f.bookings.Delete(ctx, &owner, id), domain.ErrBookingNotFound)

	list, err = f.bookings.Create(ctx, &u1, "2025-01-10T09:00:00Z", "2025-01-10T10:00:00Z")
	require.NoError(t, err, "slot is free again after delete")
	require.NoError(t, f.bookings.Delete(ctx, &u1, list[0].ID))
}

func TestListByUserAndGrouped(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u1 := testutil.SeedUser(t, f.db, "Uma", domain.RoleUser)
	u2 := testutil.SeedUser(t, f.db, "Ulf", domain.RoleUser)
	testutil.SeedUser(t, f.db, "Idle", domain.RoleOwner)

	_, err := f.bookings.Create(ctx, &u1, "2025-01-10T12:00:00Z", "2025-01-10T13:00:00Z")
	require.NoError(t, err)
	_, err = f.bookings.Create(ctx, &u1, "2025-01-10T08:00:00Z", "2025-01-10T09:00:00Z")
	require.NoError(t, err)
	_, err = f.bookings.Create(ctx, &u2, "2025-01-10T10:00:00Z", "2025-01-10T11:00:00Z")
	require.NoError(t, err)

	mine, err := f.bookings.ListByUser(ctx, u1.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].StartTime.Before(mine[1].StartTime))

	none, err := f.bookings.ListByUser(ctx, 9999)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	_, err = f.bookings.ListByUser(ctx, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidUserID)

	groups, err := f.bookings.GroupedByUser(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0].Bookings, 2)
	assert.Len(t, groups[1].Bookings, 1)
	assert.Empty(t, groups[2].Bookings)
}

func TestUserManagement(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := testutil.SeedUser(t, f.db, "Ada", domain.RoleAdmin)
	owner := testutil.SeedUser(t, f.db, "Otto", domain.RoleOwner)

	_, err := f.users.Create(ctx, &owner, "Nope", "user")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.users.Create(ctx, &admin, "  ", "user")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.users.Create(ctx, &admin, "Zed", "superuser")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	u, err := f.users.Create(ctx, &admin, " Uma ", "user")
	require.NoError(t, err)
	assert.Equal(t, "Uma", u.Name)
	assert.Equal(t, domain.RoleUser, u.Role)
	assert.NotZero(t, u.ID)

	_, err = f.users.ChangeRole(ctx, &admin, u.ID, "boss")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.users.ChangeRole(ctx, &admin, 9999, "owner")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	changed, err := f.users.ChangeRole(ctx, &admin, u.ID, "owner")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOwner, changed.Role)

	assert.ErrorIs(t, f.users.Delete(ctx, &admin, admin.ID), domain.ErrCannotDeleteSelf)
	assert.ErrorIs(t, f.users.Delete(ctx, &admin, 9999), domain.ErrUserNotFound)
	assert.ErrorIs(t, f.users.Delete(ctx, &admin, 0), domain.ErrInvalidUserID)

	_, err = f.bookings.Create(ctx, u, "2025-01-10T09:00:00Z", "2025-01-10T10:00:00Z")
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, &admin, u.ID))

	all, err := f.bookings.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all, "bookings go with their user")

	pub, err := f.users.ListPublic(ctx)
	require.NoError(t, err)
	assert.Len(t, pub, 2)
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, created, err := f.users.EnsureAdmin(ctx, "root")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, u.Role)

	again, created, err := f.users.EnsureAdmin(ctx, "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, u.ID, again.ID)
}

func TestSummarize(t *testing.T) {
	at := func(h, m int) time.Time { return time.Date(2025, 1, 10, h, m, 0, 0, time.UTC) }
	groups := []domain.UserBookings{
		{UserID: 1, UserName: "Ada", Role: domain.RoleAdmin, Bookings: []domain.BookingSlot{
			{ID: 1, StartTime: at(8, 0), EndTime: at(9, 0)},
		}},
		{UserID: 2, UserName: "Uma", Role: domain.RoleUser, Bookings: []domain.BookingSlot{
			{ID: 2, StartTime: at(9, 0), EndTime: at(9, 30)},
			{ID: 3, StartTime: at(10, 0), EndTime: at(11, 15)},
		}},
		{UserID: 3, UserName: "Idle", Role: domain.RoleOwner, Bookings: []domain.BookingSlot{}},
	}

	got := service.Summarize(groups, false)
	require.Len(t, got, 3)
	assert.Equal(t, domain.UsageSummary{UserID: 2, UserName: "Uma", Role: domain.RoleUser, TotalBookings: 2, TotalMinutesBooked: 105}, got[0])
	assert.Equal(t, int64(1), got[1].UserID)
	assert.Equal(t, int64(60), got[1].TotalMinutesBooked)
	assert.Equal(t, int64(3), got[2].UserID)
	assert.Zero(t, got[2].TotalBookings)

	got = service.Summarize(groups, true)
	require.Len(t, got, 2)
	for _, s := range got {
		assert.NotEqual(t, domain.RoleAdmin, s.Role)
	}
}

func TestUsageServiceFromStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := testutil.SeedUser(t, f.db, "Uma", domain.RoleUser)
	_, err := f.bookings.Create(ctx, &u, "2025-01-10T09:00:00Z", "2025-01-10T09:45:00Z")
	require.NoError(t, err)

	sum, err := service.NewUsageService(repo.NewBookingRepo(f.db), false).Summarize(ctx)
	require.NoError(t, err)
	require.Len(t, sum, 1)
	assert.Equal(t, int64(1), sum[0].TotalBookings)
	assert.Equal(t, int64(45), sum[0].TotalMinutesBooked)
}

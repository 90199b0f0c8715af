package store_test

import (
	"context"
	"testing"
	"time"

	"campus-availability-server/internal/models"
	"campus-availability-server/internal/store"
	"campus-availability-server/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.NewTestDB(t))
}

func book(t *testing.T, st *store.Store, facultyID, date, clock string) *models.Appointment {
	t.Helper()
	apt, err := st.BookAppointment(context.Background(), store.NewAppointment{
		FacultyID:    facultyID,
		StudentName:  "Asha Verma",
		StudentEmail: "asha@student.vit.ac.in",
		Date:         date,
		Time:         clock,
		Purpose:      "Project review",
	})
	require.NoError(t, err)
	return apt
}

func TestListFaculties_Filters(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		filter store.FacultyFilter
		want   []string
	}{
		{"all", store.FacultyFilter{}, []string{"Dr. Arjun Patel", "Dr. Kavitha Reddy", "Dr. Priya Sharma", "Dr. Rajesh Kumar", "Dr. Sanjay Gupta"}},
		{"status available", store.FacultyFilter{Status: "available"}, []string{"Dr. Rajesh Kumar", "Dr. Sanjay Gupta"}},
		{"status all", store.FacultyFilter{Status: "all", Department: "all"}, []string{"Dr. Arjun Patel", "Dr. Kavitha Reddy", "Dr. Priya Sharma", "Dr. Rajesh Kumar", "Dr. Sanjay Gupta"}},
		{"department", store.FacultyFilter{Department: "Mechanical Engineering"}, []string{"Dr. Arjun Patel"}},
		{"search name case-insensitive", store.FacultyFilter{Search: "PRIYA"}, []string{"Dr. Priya Sharma"}},
		{"search department", store.FacultyFilter{Search: "electr"}, []string{"Dr. Priya Sharma", "Dr. Sanjay Gupta"}},
		{"search cabin", store.FacultyFilter{Search: "tt-412"}, []string{"Dr. Kavitha Reddy"}},
		{"search designation and status", store.FacultyFilter{Search: "associate", Status: "available"}, []string{"Dr. Sanjay Gupta"}},
		{"limit", store.FacultyFilter{Limit: 2}, []string{"Dr. Arjun Patel", "Dr. Kavitha Reddy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := st.ListFaculties(ctx, tt.filter)
			require.NoError(t, err)
			names := make([]string, len(got))
			for i, f := range got {
				names[i] = f.Name
			}
			assert.Equal(t, tt.want, names)
		})
	}

	_, err := st.ListFaculties(ctx, store.FacultyFilter{Status: "offline"})
	assert.ErrorIs(t, err, store.ErrInvalidStatus)
}

func TestListFaculties_ExcludesAdmins(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, models.SeedAdmin(db, "admin@vit.ac.in", "adminpass"))
	st := store.New(db)

	got, err := st.ListFaculties(context.Background(), store.FacultyFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 5)

	admin, err := st.FacultyByEmail(context.Background(), "admin@vit.ac.in")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.True(t, admin.CheckPassword("adminpass"))
}

func TestAdminOutsideDirectory(t *testing.T) {
	db := testutil.NewTestDB(t)
	require.NoError(t, models.SeedAdmin(db, "admin@vit.ac.in", "adminpass"))
	st := store.New(db)
	ctx := context.Background()

	admin, err := st.FacultyByEmail(ctx, "admin@vit.ac.in")
	require.NoError(t, err)

	_, err = st.GetFaculty(ctx, admin.ID)
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)

	_, err = st.UpdateFacultyStatus(ctx, admin.ID, models.FacultyBusy, "")
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)

	err = st.CreateFeedback(ctx, &models.Feedback{FacultyID: &admin.ID, Rating: 5})
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)

	_, err = st.FeedbackSummary(ctx, admin.ID)
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)

	account, err := st.Account(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, account.Role)

	_, err = st.Account(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)
}

func TestDepartments(t *testing.T) {
	st := newStore(t)
	got, err := st.Departments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Computer Science & Engineering",
		"Electrical Engineering",
		"Electronics & Communication",
		"Information Technology",
		"Mechanical Engineering",
	}, got)
}

func TestUpdateFacultyStatus(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	fixed := time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC)
	st.SetClock(func() time.Time { return fixed })

	f, err := st.UpdateFacultyStatus(ctx, "1", models.FacultyBusy, "Grading exams")
	require.NoError(t, err)
	assert.Equal(t, models.FacultyBusy, f.Status)
	assert.Equal(t, "Grading exams", f.StatusMessage)
	assert.True(t, fixed.Equal(f.LastUpdated))

	reloaded, err := st.GetFaculty(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, models.FacultyBusy, reloaded.Status)
	assert.Equal(t, "Grading exams", reloaded.StatusMessage)
	assert.True(t, fixed.Equal(reloaded.LastUpdated.UTC()))

	// an empty message clears the previous one
	f, err = st.UpdateFacultyStatus(ctx, "1", models.FacultyAvailable, "")
	require.NoError(t, err)
	assert.Equal(t, "", f.StatusMessage)
	reloaded, err = st.GetFaculty(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "", reloaded.StatusMessage)

	_, err = st.UpdateFacultyStatus(ctx, "1", "offline", "")
	assert.ErrorIs(t, err, store.ErrInvalidStatus)

	_, err = st.UpdateFacultyStatus(ctx, "99", models.FacultyAway, "")
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)
}

func TestBookAppointment(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	apt := book(t, st, "2", "2030-01-10", "10:30")
	assert.NotEmpty(t, apt.ID)
	assert.Equal(t, models.StatusPending, apt.Status)

	stored, err := st.GetAppointment(ctx, apt.ID)
	require.NoError(t, err)
	assert.Equal(t, "Project review", stored.Purpose)
	assert.Equal(t, "2", stored.FacultyID)

	_, err = st.BookAppointment(ctx, store.NewAppointment{FacultyID: "42", Date: "2030-01-10", Time: "10:30"})
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)

	_, err = st.BookAppointment(ctx, store.NewAppointment{FacultyID: "2", StudentName: "B", StudentEmail: "b@x.io", Date: "2030-01-10", Time: "10:30"})
	assert.ErrorIs(t, err, store.ErrSlotTaken)

	// a cancelled booking frees the slot
	_, _, err = st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusCancelled)
	require.NoError(t, err)
	again := book(t, st, "2", "2030-01-10", "10:30")
	assert.NotEqual(t, apt.ID, again.ID)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	apt := book(t, st, "1", "2030-02-01", "09:00")

	got, prev, err := st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, prev)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	got, prev, err = st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, prev)
	assert.Equal(t, models.StatusConfirmed, got.Status)

	_, _, err = st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusPending)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, _, err = st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusCancelled)
	require.NoError(t, err)

	_, _, err = st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusConfirmed)
	assert.ErrorIs(t, err, store.ErrInvalidTransition)

	_, _, err = st.UpdateAppointmentStatus(ctx, "missing", models.StatusConfirmed)
	assert.ErrorIs(t, err, store.ErrAppointmentNotFound)

	_, _, err = st.UpdateAppointmentStatus(ctx, apt.ID, "done")
	assert.ErrorIs(t, err, store.ErrInvalidStatus)
}

func TestListAppointments(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a1 := book(t, st, "1", "2030-02-02", "11:00")
	book(t, st, "1", "2030-02-01", "15:00")
	book(t, st, "3", "2030-02-01", "09:00")
	_, _, err := st.UpdateAppointmentStatus(ctx, a1.ID, models.StatusConfirmed)
	require.NoError(t, err)

	all, err := st.ListAppointments(ctx, store.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "09:00", all[0].Time)
	assert.Equal(t, "15:00", all[1].Time)
	assert.Equal(t, "2030-02-02", all[2].Date)

	mine, err := st.ListAppointments(ctx, store.AppointmentFilter{FacultyID: "1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	confirmed, err := st.ListAppointments(ctx, store.AppointmentFilter{FacultyID: "1", Status: "confirmed"})
	require.NoError(t, err)
	require.Len(t, confirmed, 1)
	assert.Equal(t, a1.ID, confirmed[0].ID)

	byEmail, err := st.ListAppointments(ctx, store.AppointmentFilter{StudentEmail: "ASHA@student.vit.ac.in"})
	require.NoError(t, err)
	assert.Len(t, byEmail, 3)

	byDate, err := st.ListAppointments(ctx, store.AppointmentFilter{Date: "2030-02-01"})
	require.NoError(t, err)
	assert.Len(t, byDate, 2)

	none, err := st.ListAppointments(ctx, store.AppointmentFilter{StudentEmail: "nobody@x.io"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestStats(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	a := book(t, st, "1", "2030-05-05", "10:00")
	book(t, st, "1", "2030-05-06", "10:00")
	book(t, st, "3", "2030-05-05", "12:00")
	_, _, err := st.UpdateAppointmentStatus(ctx, a.ID, models.StatusConfirmed)
	require.NoError(t, err)

	stats, err := st.Stats(ctx, "2030-05-05")
	require.NoError(t, err)

	assert.EqualValues(t, 5, stats.TotalFaculty)
	assert.EqualValues(t, 2, stats.AvailableNow)
	assert.Equal(t, 40, stats.AvailabilityRate)
	assert.EqualValues(t, 1, stats.ByStatus[models.FacultyBusy])
	assert.EqualValues(t, 1, stats.ByStatus[models.FacultyAway])
	assert.EqualValues(t, 3, stats.TotalAppointments)
	assert.EqualValues(t, 2, stats.PendingRequests)
	assert.EqualValues(t, 1, stats.ConfirmedAppointments)
	assert.Equal(t, 33, stats.SuccessRate)
	assert.EqualValues(t, 2, stats.TodayAppointments)

	require.Len(t, stats.Departments, 5)
	cse := stats.Departments[0]
	assert.Equal(t, "Computer Science & Engineering", cse.Department)
	assert.EqualValues(t, 1, cse.Total)
	assert.EqualValues(t, 1, cse.Available)
	assert.EqualValues(t, 2, cse.Appointments)
	assert.Equal(t, 100, cse.AvailabilityRate)
}

func TestRecentActivity(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	base := time.Now().UTC().Add(time.Hour)
	st.SetClock(func() time.Time { return base })
	_, err := st.UpdateFacultyStatus(ctx, "4", models.FacultyAvailable, "Back on campus")
	require.NoError(t, err)

	apt := book(t, st, "2", "2030-01-01", "10:00")
	time.Sleep(10 * time.Millisecond)
	_, _, err = st.UpdateAppointmentStatus(ctx, apt.ID, models.StatusConfirmed)
	require.NoError(t, err)

	got, err := st.RecentActivity(ctx, 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, store.ActivityStatusChange, got[0].Type)
	assert.Equal(t, "4", got[0].FacultyID)
	assert.Equal(t, store.ActivityAppointmentConfirmed, got[1].Type)
	assert.Equal(t, "Dr. Priya Sharma", got[1].FacultyName)

	empty, err := st.RecentActivity(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFeedback(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	id := "5"

	require.NoError(t, st.CreateFeedback(ctx, &models.Feedback{FacultyID: &id, Rating: 5, Category: models.FeedbackAvailability}))
	require.NoError(t, st.CreateFeedback(ctx, &models.Feedback{FacultyID: &id, Rating: 4}))
	require.NoError(t, st.CreateFeedback(ctx, &models.Feedback{FacultyID: &id, Rating: 4, Category: models.FeedbackAvailability}))
	require.NoError(t, st.CreateFeedback(ctx, &models.Feedback{Rating: 1, Category: models.FeedbackPerformance}))

	summary, err := st.FeedbackSummary(ctx, id)
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.Count)
	assert.Equal(t, 4.3, summary.AverageRating)
	assert.EqualValues(t, 2, summary.ByCategory[models.FeedbackAvailability])
	assert.EqualValues(t, 1, summary.ByCategory[models.FeedbackGeneral])

	missing := "77"
	err = st.CreateFeedback(ctx, &models.Feedback{FacultyID: &missing, Rating: 3})
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)

	_, err = st.FeedbackSummary(ctx, missing)
	assert.ErrorIs(t, err, store.ErrFacultyNotFound)
}

func TestRefreshTokens(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	exp := time.Now().UTC().Add(time.Hour)

	require.NoError(t, st.SaveRefreshToken(ctx, "1", "tok-a", exp))
	require.NoError(t, st.RotateRefreshToken(ctx, "1", "tok-a", "tok-b", exp))

	// rotated token cannot be reused
	err := st.RotateRefreshToken(ctx, "1", "tok-a", "tok-c", exp)
	assert.ErrorIs(t, err, store.ErrTokenNotFound)

	// wrong owner
	err = st.RotateRefreshToken(ctx, "2", "tok-b", "tok-c", exp)
	assert.ErrorIs(t, err, store.ErrTokenNotFound)

	// another account cannot revoke it
	assert.ErrorIs(t, st.RevokeRefreshToken(ctx, "2", "tok-b"), store.ErrTokenNotFound)
	require.NoError(t, st.RevokeRefreshToken(ctx, "1", "tok-b"))
	assert.ErrorIs(t, st.RevokeRefreshToken(ctx, "1", "tok-b"), store.ErrTokenNotFound)

	require.NoError(t, st.SaveRefreshToken(ctx, "1", "tok-old", time.Now().UTC().Add(-time.Minute)))
	err = st.RotateRefreshToken(ctx, "1", "tok-old", "tok-d", exp)
	assert.ErrorIs(t, err, store.ErrTokenNotFound)
}

func TestResetPassword(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()

	require.NoError(t, st.ResetPassword(ctx, "arjun.patel@vit.ac.in", "new-secret"))
	f, err := st.FacultyByEmail(ctx, "arjun.patel@vit.ac.in")
	require.NoError(t, err)
	assert.True(t, f.CheckPassword("new-secret"))
	assert.False(t, f.CheckPassword(testutil.SeedPassword))

	assert.ErrorIs(t, st.ResetPassword(ctx, "ghost@vit.ac.in", "x"), store.ErrFacultyNotFound)
}

package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
)

func strPtr(s string) *string { return &s }

// fakeCounselors inactive - ID деактивированных консультантов из list
type fakeCounselors struct {
	list     []*model.Counselor
	inactive map[string]bool
	err      error
	calls    int
}

func (f *fakeCounselors) GetActive(ctx context.Context) ([]*model.Counselor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var active []*model.Counselor
	for _, c := range f.list {
		if !f.inactive[c.CounselorID] {
			active = append(active, c)
		}
	}
	return active, nil
}

func (f *fakeCounselors) GetActiveByID(ctx context.Context, counselorID string) (*model.Counselor, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	for _, c := range f.list {
		if c.CounselorID == counselorID && !f.inactive[c.CounselorID] {
			return c, nil
		}
	}
	return nil, nil
}

// fakeAvailability слоты по консультанту и дню, nil - NULL
type fakeAvailability struct {
	slots map[string]map[model.Weekday][]*string
	err   error
	calls int
}

func (f *fakeAvailability) add(counselorID string, day model.Weekday, slot *string) {
	if f.slots == nil {
		f.slots = map[string]map[model.Weekday][]*string{}
	}
	if f.slots[counselorID] == nil {
		f.slots[counselorID] = map[model.Weekday][]*string{}
	}
	f.slots[counselorID][day] = append(f.slots[counselorID][day], slot)
}

func (f *fakeAvailability) GetGroupedByDay(ctx context.Context, counselorID string) (map[model.Weekday][]*model.Availability, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := map[model.Weekday][]*model.Availability{}
	for day := range f.slots[counselorID] {
		out[day], _ = f.GetByDay(ctx, counselorID, day)
	}
	return out, nil
}

func (f *fakeAvailability) GetByDay(ctx context.Context, counselorID string, day model.Weekday) ([]*model.Availability, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	var out []*model.Availability
	for i, s := range f.slots[counselorID][day] {
		out = append(out, &model.Availability{ID: int64(i + 1), CounselorID: counselorID, Day: day, TimeScheduled: s})
	}
	return out, nil
}

type fakeNotifications struct {
	events    []model.RawNotification
	unread    int
	err       error
	since     time.Time
	countFrom time.Time
}

// GetRecentEvents как и SQL отдаёт события строго новее since
func (f *fakeNotifications) GetRecentEvents(ctx context.Context, userID string, since time.Time) ([]model.RawNotification, error) {
	f.since = since
	if f.err != nil {
		return nil, f.err
	}
	var out []model.RawNotification
	for _, e := range f.events {
		if e.CreatedAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeNotifications) GetUnreadCount(ctx context.Context, userID string, fallbackSince time.Time) (int, error) {
	f.countFrom = fallbackSince
	return f.unread, f.err
}

type fakeMessages struct {
	received []*model.ReceivedMessage
	err      error
	ids      []int64
}

func (f *fakeMessages) GetReceivedByIDs(ctx context.Context, ids []int64, receiverID string) ([]*model.ReceivedMessage, error) {
	f.ids = ids
	return f.received, f.err
}

type fakeActivity struct {
	updates []time.Time
	err     error
}

func (f *fakeActivity) UpdateLastActivity(ctx context.Context, userID string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.updates = append(f.updates, at)
	return nil
}

type fakeAppointments struct {
	byID      map[int64]*model.Appointment
	created   []*model.Appointment
	updated   [][2]model.AppointmentStatus
	filter    *model.AppointmentStatus
	limit     int
	err       error
	updateErr error
	stale     bool
}

func (f *fakeAppointments) Create(ctx context.Context, a *model.Appointment) error {
	if f.err != nil {
		return f.err
	}
	a.ID = int64(len(f.created) + 1)
	f.created = append(f.created, a)
	return nil
}

func (f *fakeAppointments) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID[id], nil
}

func (f *fakeAppointments) GetRecentPendingForCounselor(ctx context.Context, counselorID string, limit int) ([]*model.Appointment, error) {
	f.limit = limit
	return nil, f.err
}

func (f *fakeAppointments) GetByCounselor(ctx context.Context, counselorID string, status *model.AppointmentStatus) ([]*model.Appointment, error) {
	f.filter = status
	return nil, f.err
}

func (f *fakeAppointments) GetByStudentID(ctx context.Context, studentID string) ([]*model.Appointment, error) {
	return nil, f.err
}

func (f *fakeAppointments) GetCompletedHistory(ctx context.Context) ([]*model.Appointment, error) {
	return nil, f.err
}

func (f *fakeAppointments) UpdateStatus(ctx context.Context, id int64, from, to model.AppointmentStatus) (bool, error) {
	if f.updateErr != nil {
		return false, f.updateErr
	}
	if f.stale {
		return false, nil
	}
	f.updated = append(f.updated, [2]model.AppointmentStatus{from, to})
	return true, nil
}

type fakeUsers struct {
	users  map[string]*model.User
	hashes map[string]string
	err    error
}

func (f *fakeUsers) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return f.users[userID], f.err
}

func (f *fakeUsers) GetByLogin(ctx context.Context, identifier string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == identifier || u.Email == identifier {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUsers) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	if f.err != nil {
		return f.err
	}
	if f.hashes == nil {
		f.hashes = make(map[string]string)
	}
	f.hashes[userID] = hash
	if u, ok := f.users[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}

func (f *fakeUsers) List(ctx context.Context) ([]*model.User, error) {
	var out []*model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, f.err
}

type fakeAcademic struct {
	saved *model.StudentAcademicInfo
}

func (f *fakeAcademic) GetByStudentID(ctx context.Context, studentID string) (*model.StudentAcademicInfo, error) {
	return f.saved, nil
}

func (f *fakeAcademic) Upsert(ctx context.Context, info *model.StudentAcademicInfo) error {
	info.ID = 1
	f.saved = info
	return nil
}

type fakeReports struct {
	days             []model.DatedStatusCount
	years            []model.YearStatusCount
	times            []model.TimedStatus
	ranges           [][2]time.Time
	yearFrom, yearTo int
}

func (f *fakeReports) CountByDay(ctx context.Context, from, to time.Time) ([]model.DatedStatusCount, error) {
	f.ranges = append(f.ranges, [2]time.Time{from, to})
	var out []model.DatedStatusCount
	for _, d := range f.days {
		if !d.Date.Before(from) && !d.Date.After(to) {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeReports) CountByYear(ctx context.Context, fromYear, toYear int) ([]model.YearStatusCount, error) {
	f.yearFrom, f.yearTo = fromYear, toYear
	return f.years, nil
}

func (f *fakeReports) TimesInRange(ctx context.Context, from, to time.Time) ([]model.TimedStatus, error) {
	return f.times, nil
}

package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/app/models/dto"
	"github.com/twaaos/examscheduler/internal/app/repositories"
	"github.com/twaaos/examscheduler/internal/db"
	"github.com/twaaos/examscheduler/internal/pkg/apperrors"
	"github.com/twaaos/examscheduler/internal/pkg/email"
	"github.com/twaaos/examscheduler/internal/pkg/filestorage"
)

// In-memory repositories. Unused interface methods are left to the embedded nil
// interface and panic when called.

var testLogger = zerolog.Nop()

func int64Ptr(v int64) *int64 { return &v }

type fakeUsers struct {
	repositories.IUserRepository
	mu     sync.Mutex
	byID   map[int64]*models.User
	nextID int64
}

func newFakeUsers(users ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[int64]*models.User{}}
	for _, u := range users {
		if u.ID == 0 {
			f.nextID++
			u.ID = f.nextID
		} else if u.ID > f.nextID {
			f.nextID = u.ID
		}
		cp := *u
		f.byID[u.ID] = &cp
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, emailAddr string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, emailAddr) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) GetByGoogleID(_ context.Context, googleID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.GoogleID != nil && *u.GoogleID == googleID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUsers) filter(keep func(*models.User) bool) []*models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.User{}
	for _, u := range f.byID {
		if keep(u) {
			cp := *u
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeUsers) GetAll(_ context.Context) ([]*models.User, error) {
	return f.filter(func(*models.User) bool { return true }), nil
}

func (f *fakeUsers) GetByRole(_ context.Context, role models.Role) ([]*models.User, error) {
	return f.filter(func(u *models.User) bool { return u.Role == role }), nil
}

func (f *fakeUsers) GetByGroup(_ context.Context, groupID int64, role models.Role) ([]*models.User, error) {
	return f.filter(func(u *models.User) bool {
		return u.GroupID != nil && *u.GroupID == groupID && (role == "" || u.Role == role)
	}), nil
}

func (f *fakeUsers) Update(_ context.Context, u *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[u.ID]; !ok {
		return apperrors.ErrUserNotFound
	}
	cp := *u
	f.byID[u.ID] = &cp
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeUsers) DeleteAll(_ context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := int64(len(f.byID))
	f.byID = map[int64]*models.User{}
	return n, nil
}

func (f *fakeUsers) UpdatePasswordHash(_ context.Context, userID int64, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.PasswordHash = &hash
	return nil
}

func (f *fakeUsers) AttachGoogleID(_ context.Context, userID int64, googleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	u.GoogleID = &googleID
	return nil
}

type fakeGroups struct {
	repositories.IGroupRepository
	byID   map[int64]*models.Group
	nextID int64
}

func newFakeGroups(groups ...*models.Group) *fakeGroups {
	f := &fakeGroups{byID: map[int64]*models.Group{}}
	for _, g := range groups {
		if g.ID > f.nextID {
			f.nextID = g.ID
		}
		f.byID[g.ID] = g
	}
	return f
}

func (f *fakeGroups) Create(_ context.Context, g *models.Group) error {
	f.nextID++
	g.ID = f.nextID
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGroups) GetByID(_ context.Context, id int64) (*models.Group, error) {
	g, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrGroupNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGroups) GetByName(_ context.Context, name string) (*models.Group, error) {
	for _, g := range f.sorted() {
		if g.Name == name {
			return g, nil
		}
	}
	return nil, apperrors.ErrGroupNotFound
}

func (f *fakeGroups) sorted() []*models.Group {
	out := make([]*models.Group, 0, len(f.byID))
	for _, g := range f.byID {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeGroups) GetAll(_ context.Context) ([]*models.Group, error) {
	return f.sorted(), nil
}

func (f *fakeGroups) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeGroups) Update(_ context.Context, g *models.Group) error {
	if _, ok := f.byID[g.ID]; !ok {
		return apperrors.ErrGroupNotFound
	}
	f.byID[g.ID] = g
	return nil
}

func (f *fakeGroups) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrGroupNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeGroups) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = map[int64]*models.Group{}
	return n, nil
}

type fakeRooms struct {
	repositories.IRoomRepository
	byID map[int64]*models.Room
}

func newFakeRooms(rooms ...*models.Room) *fakeRooms {
	f := &fakeRooms{byID: map[int64]*models.Room{}}
	for _, r := range rooms {
		f.byID[r.ID] = r
	}
	return f
}

func (f *fakeRooms) GetByID(_ context.Context, id int64) (*models.Room, error) {
	r, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrRoomNotFound
	}
	return r, nil
}

func (f *fakeRooms) GetByIDs(_ context.Context, ids []int64) ([]*models.Room, error) {
	out := []*models.Room{}
	for _, id := range ids {
		if r, ok := f.byID[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRooms) GetByBuilding(_ context.Context, building string) ([]*models.Room, error) {
	out := []*models.Room{}
	for _, r := range f.byID {
		if strings.EqualFold(r.BuildingName, building) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeRooms) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = map[int64]*models.Room{}
	return n, nil
}

type fakeSubjects struct {
	repositories.ISubjectRepository
	byID   map[int64]*models.Subject
	nextID int64
}

func newFakeSubjects(subjects ...*models.Subject) *fakeSubjects {
	f := &fakeSubjects{byID: map[int64]*models.Subject{}}
	for _, s := range subjects {
		if s.ID > f.nextID {
			f.nextID = s.ID
		}
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSubjects) Create(_ context.Context, s *models.Subject) error {
	f.nextID++
	s.ID = f.nextID
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubjects) GetByID(_ context.Context, id int64) (*models.Subject, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrSubjectNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSubjects) GetAll(_ context.Context) ([]*models.Subject, error) {
	out := make([]*models.Subject, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSubjects) GetByAssistant(_ context.Context, assistantID int64) ([]*models.Subject, error) {
	all, _ := f.GetAll(context.Background())
	out := []*models.Subject{}
	for _, s := range all {
		for _, id := range s.AssistantIDs {
			if id == assistantID {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeSubjects) Update(_ context.Context, s *models.Subject) error {
	if _, ok := f.byID[s.ID]; !ok {
		return apperrors.ErrSubjectNotFound
	}
	f.byID[s.ID] = s
	return nil
}

func (f *fakeSubjects) ReassignTeacher(_ context.Context, groupID, teacherID int64) (int64, error) {
	var n int64
	for _, s := range f.byID {
		if s.GroupID == groupID {
			s.TeacherID = teacherID
			n++
		}
	}
	return n, nil
}

func (f *fakeSubjects) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = map[int64]*models.Subject{}
	return n, nil
}

type fakeSchedules struct {
	repositories.IScheduleRepository
	byID       map[int64]*models.Schedule
	nextID     int64
	resetCalls int
}

func newFakeSchedules(schedules ...*models.Schedule) *fakeSchedules {
	f := &fakeSchedules{byID: map[int64]*models.Schedule{}}
	for _, s := range schedules {
		if s.ID > f.nextID {
			f.nextID = s.ID
		}
		f.byID[s.ID] = s
	}
	return f
}

func (f *fakeSchedules) Create(_ context.Context, s *models.Schedule) error {
	for _, existing := range f.byID {
		if existing.SubjectID == s.SubjectID {
			return repositories.ErrScheduleSubjectTaken
		}
	}
	f.nextID++
	s.ID = f.nextID
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSchedules) GetByID(_ context.Context, id int64) (*models.Schedule, error) {
	s, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrScheduleNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSchedules) GetBySubject(_ context.Context, subjectID int64) (*models.Schedule, error) {
	for _, s := range f.byID {
		if s.SubjectID == subjectID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, apperrors.ErrScheduleNotFound
}

func (f *fakeSchedules) GetAll(_ context.Context) ([]*models.Schedule, error) {
	out := make([]*models.Schedule, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSchedules) GetApprovedOnDate(_ context.Context, date time.Time, excludeID int64) ([]*models.Schedule, error) {
	out := []*models.Schedule{}
	for _, s := range f.byID {
		if s.ID == excludeID || s.StatusOrEmpty() != models.StatusApproved || s.Date == nil || !s.Date.Equal(date) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSchedules) Update(_ context.Context, s *models.Schedule) error {
	if _, ok := f.byID[s.ID]; !ok {
		return apperrors.ErrScheduleNotFound
	}
	cp := *s
	f.byID[s.ID] = &cp
	return nil
}

func (f *fakeSchedules) ResetStudentGroupSchedules(_ context.Context) (int64, error) {
	f.resetCalls++
	pending := models.StatusPending
	for _, s := range f.byID {
		s.Status = &pending
	}
	return int64(len(f.byID)), nil
}

func (f *fakeSchedules) Delete(_ context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return apperrors.ErrScheduleNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeSchedules) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = map[int64]*models.Schedule{}
	return n, nil
}

func (f *fakeSchedules) DeleteAllTx(ctx context.Context, _ pgx.Tx) (int64, error) {
	return f.DeleteAll(ctx)
}

func (f *fakeSchedules) CreatePendingTx(ctx context.Context, _ pgx.Tx, subjectID int64) error {
	pending := models.StatusPending
	return f.Create(ctx, &models.Schedule{SubjectID: subjectID, RoomIDs: []int64{}, Status: &pending})
}

// fakeExams derives exam rows from the schedule and subject fakes
type fakeExams struct {
	repositories.IExamRepository
	schedules *fakeSchedules
	subjects  *fakeSubjects
	listed    []models.ExamFilter
	rows      []*models.Exam
}

func (f *fakeExams) List(_ context.Context, filter models.ExamFilter) ([]*models.Exam, error) {
	f.listed = append(f.listed, filter)
	return f.rows, nil
}

func (f *fakeExams) GetByID(ctx context.Context, scheduleID int64) (*models.Exam, error) {
	s, err := f.schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return nil, err
	}
	exam := &models.Exam{
		ID:        s.ID,
		SubjectID: s.SubjectID,
		RoomIDs:   s.RoomIDs,
		Date:      s.Date,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
		Status:    s.Status,
		Message:   s.Message,
	}
	if subject, err := f.subjects.GetByID(ctx, s.SubjectID); err == nil {
		exam.SubjectName = subject.Name
		exam.GroupID = subject.GroupID
		exam.TeacherID = subject.TeacherID
	}
	return exam, nil
}

type fakePeriods struct {
	repositories.IExamPeriodRepository
	byID   map[int64]*models.ExamPeriod
	nextID int64
}

func newFakePeriods(periods ...*models.ExamPeriod) *fakePeriods {
	f := &fakePeriods{byID: map[int64]*models.ExamPeriod{}}
	for _, p := range periods {
		if p.ID > f.nextID {
			f.nextID = p.ID
		}
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePeriods) Create(_ context.Context, p *models.ExamPeriod) error {
	f.nextID++
	p.ID = f.nextID
	p.ModifiedAt = time.Now()
	f.byID[p.ID] = p
	return nil
}

func (f *fakePeriods) GetByID(_ context.Context, id int64) (*models.ExamPeriod, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrConfigNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePeriods) GetCurrent(_ context.Context) (*models.ExamPeriod, error) {
	var current *models.ExamPeriod
	for _, p := range f.byID {
		if current == nil || p.ModifiedAt.After(current.ModifiedAt) {
			current = p
		}
	}
	if current == nil {
		return nil, apperrors.ErrConfigNotFound
	}
	return current, nil
}

func (f *fakePeriods) Update(_ context.Context, p *models.ExamPeriod) error {
	if _, ok := f.byID[p.ID]; !ok {
		return apperrors.ErrConfigNotFound
	}
	p.ModifiedAt = time.Now()
	f.byID[p.ID] = p
	return nil
}

type fakeNotifications struct {
	repositories.INotificationRepository
	byID   map[int64]*models.Notification
	nextID int64
}

func newFakeNotifications() *fakeNotifications {
	return &fakeNotifications{byID: map[int64]*models.Notification{}}
}

func (f *fakeNotifications) Create(_ context.Context, n *models.Notification) error {
	f.nextID++
	n.ID = f.nextID
	n.DateSent = time.Now()
	cp := *n
	f.byID[n.ID] = &cp
	return nil
}

func (f *fakeNotifications) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	n, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrNotificationNotFound
	}
	cp := *n
	return &cp, nil
}

func (f *fakeNotifications) Update(_ context.Context, n *models.Notification) error {
	if _, ok := f.byID[n.ID]; !ok {
		return apperrors.ErrNotificationNotFound
	}
	cp := *n
	f.byID[n.ID] = &cp
	return nil
}

func (f *fakeNotifications) DeleteAll(_ context.Context) (int64, error) {
	n := int64(len(f.byID))
	f.byID = map[int64]*models.Notification{}
	return n, nil
}

func (f *fakeNotifications) forUser(userID int64) []*models.Notification {
	out := []*models.Notification{}
	for _, n := range f.byID {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

type fakeTemplates struct {
	repositories.IExcelTemplateRepository
	byID   map[int64]*models.ExcelTemplate
	nextID int64
}

func newFakeTemplates() *fakeTemplates {
	return &fakeTemplates{byID: map[int64]*models.ExcelTemplate{}}
}

func (f *fakeTemplates) Create(_ context.Context, t *models.ExcelTemplate) error {
	f.nextID++
	t.ID = f.nextID
	t.UploadedAt = time.Now()
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

func (f *fakeTemplates) GetByID(_ context.Context, id int64) (*models.ExcelTemplate, error) {
	t, ok := f.byID[id]
	if !ok {
		return nil, apperrors.ErrTemplateNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTemplates) GetByName(_ context.Context, name string) (*models.ExcelTemplate, error) {
	var newest *models.ExcelTemplate
	for _, t := range f.byID {
		if t.Name == name && (newest == nil || t.ID > newest.ID) {
			newest = t
		}
	}
	if newest == nil {
		return nil, apperrors.ErrTemplateNotFound
	}
	cp := *newest
	return &cp, nil
}

func (f *fakeTemplates) Update(_ context.Context, t *models.ExcelTemplate) error {
	if _, ok := f.byID[t.ID]; !ok {
		return apperrors.ErrTemplateNotFound
	}
	cp := *t
	f.byID[t.ID] = &cp
	return nil
}

type fakeTransactor struct{ calls int }

func (f *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

type fakeCollector struct {
	resp *dto.CollectorResponse
	err  error
	// store simulates the collector writing records through the API
	store func()
}

func (f *fakeCollector) FetchAndSync(ctx context.Context) (*dto.CollectorResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.store != nil {
		f.store()
	}
	return f.resp, f.err
}

type fakeFiles map[string][]byte

func (f fakeFiles) ReadFile(path string) (*filestorage.FileInfo, error) {
	content, ok := f[path]
	if !ok {
		return nil, filestorage.ErrFileNotFound
	}
	return &filestorage.FileInfo{Filename: path, Path: path, FileSize: int64(len(content)), Content: content}, nil
}

func (f fakeFiles) Exists(path string) bool {
	_, ok := f[path]
	return ok
}

// newTestNotifier wires a real notifier to a log sender and the notification fake
func newTestNotifier() (Notifier, *email.LogSender, *fakeNotifications) {
	sender := email.NewLogSender(testLogger)
	notifications := newFakeNotifications()
	return NewNotifier(sender, notifications, testLogger), sender, notifications
}

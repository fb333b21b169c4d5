package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository          *UserRepository
	GroupRepository         *GroupRepository
	RoomRepository          *RoomRepository
	SubjectRepository       *SubjectRepository
	ScheduleRepository      *ScheduleRepository
	ExamRepository          *ExamRepository
	ExamPeriodRepository    *ExamPeriodRepository
	NotificationRepository  *NotificationRepository
	ExcelTemplateRepository *ExcelTemplateRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		GroupRepository:         NewGroupRepository(db),
		RoomRepository:          NewRoomRepository(db),
		SubjectRepository:       NewSubjectRepository(db),
		ScheduleRepository:      NewScheduleRepository(db),
		ExamRepository:          NewExamRepository(db),
		ExamPeriodRepository:    NewExamPeriodRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		ExcelTemplateRepository: NewExcelTemplateRepository(db),
	}
}

// Compile-time interface checks
var (
	_ IUserRepository          = (*UserRepository)(nil)
	_ IGroupRepository         = (*GroupRepository)(nil)
	_ IRoomRepository          = (*RoomRepository)(nil)
	_ ISubjectRepository       = (*SubjectRepository)(nil)
	_ IScheduleRepository      = (*ScheduleRepository)(nil)
	_ IExamRepository          = (*ExamRepository)(nil)
	_ IExamPeriodRepository    = (*ExamPeriodRepository)(nil)
	_ INotificationRepository  = (*NotificationRepository)(nil)
	_ IExcelTemplateRepository = (*ExcelTemplateRepository)(nil)
)

package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/twaaos/examscheduler/internal/app/models/dto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
	// timetableWorkers bounds concurrent timetable requests to the upstream service
	timetableWorkers = 4
)

// Options configures a Collector
type Options struct {
	FacultyShortName string
	TargetFaculty    string
	// Delay is the pause between two store requests
	Delay time.Duration
}

// Collector runs the fetch, transform and store pipeline
type Collector struct {
	source  Source
	store   Store
	options Options
	logger  zerolog.Logger
}

// New creates a Collector
func New(source Source, store Store, options Options, logger zerolog.Logger) *Collector {
	return &Collector{source: source, store: store, options: options, logger: logger}
}

type upstreamData struct {
	faculties []Faculty
	groups    []Group
	rooms     []Room
	staff     []StaffMember
}

func (c *Collector) fetchAll(ctx context.Context) (*upstreamData, error) {
	var data upstreamData
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.faculties, err = c.source.Faculties(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.groups, err = c.source.Groups(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.rooms, err = c.source.Rooms(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.staff, err = c.source.Staff(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &data, nil
}

// Run fetches everything upstream, then stores groups, rooms, staff and subjects in that
// order. Upstream listing failures abort the run; store failures are reported per record.
func (c *Collector) Run(ctx context.Context) (*dto.CollectorResponse, error) {
	data, err := c.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	var groups []dto.GroupRequest
	facultyID, found := FindFaculty(data.faculties, c.options.FacultyShortName)
	if !found {
		c.logger.Warn().Str("faculty", c.options.FacultyShortName).Msg("Faculty not found, skipping groups")
	} else {
		groups = TransformGroups(data.groups, facultyID)
		c.logger.Info().Str("facultyId", facultyID).Int("fetched", len(data.groups)).Int("unique", len(groups)).Msg("Groups transformed")
	}
	rooms := TransformRooms(data.rooms)
	staff := TransformStaff(data.staff, c.options.TargetFaculty)
	c.logger.Info().Int("rooms", len(rooms)).Int("staff", len(staff)).Msg("Rooms and staff transformed")

	resp := &dto.CollectorResponse{Success: true}

	storedGroups := make([]storedGroup, 0, len(groups))
	resp.Groups, err = storeEach(ctx, c, groups, func(r dto.GroupRequest) string { return r.Name },
		func(ctx context.Context, r dto.GroupRequest) (int64, error) { return c.store.CreateGroup(ctx, r) },
		func(r dto.GroupRequest, id int64) {
			storedGroups = append(storedGroups, storedGroup{id: id, upstreamIDs: r.GroupIDs})
		})
	if err != nil {
		return nil, err
	}

	resp.Rooms, err = storeEach(ctx, c, rooms, func(r dto.RoomRequest) string { return r.Name },
		func(ctx context.Context, r dto.RoomRequest) (int64, error) { return c.store.CreateRoom(ctx, r) }, nil)
	if err != nil {
		return nil, err
	}

	teachers := make(map[string]int64, len(staff))
	resp.Users, err = storeEach(ctx, c, staff, func(r dto.CreateUserRequest) string { return r.FirstName + " " + r.LastName },
		func(ctx context.Context, r dto.CreateUserRequest) (int64, error) { return c.store.CreateUser(ctx, r) },
		func(r dto.CreateUserRequest, id int64) {
			teachers[Person{LastName: r.LastName, FirstName: r.FirstName}.key()] = id
		})
	if err != nil {
		return nil, err
	}

	subjects, skipped := c.collectSubjects(ctx, storedGroups, teachers)
	resp.Subjects, err = storeEach(ctx, c, subjects, func(r dto.SubjectRequest) string { return r.Name },
		func(ctx context.Context, r dto.SubjectRequest) (int64, error) { return c.store.CreateSubject(ctx, r) }, nil)
	if err != nil {
		return nil, err
	}
	resp.Subjects.Count += len(skipped)
	resp.Subjects.Results = append(resp.Subjects.Results, skipped...)

	resp.Message = fmt.Sprintf("Successfully processed %d groups, %d rooms, %d faculty staff and %d subjects",
		resp.Groups.Count, resp.Rooms.Count, resp.Users.Count, resp.Subjects.Count)
	c.logger.Info().Msg(resp.Message)
	return resp, nil
}

type storedGroup struct {
	id          int64
	upstreamIDs []string
}

// collectSubjects reads the timetable of every stored group and resolves teacher names
// against the stored staff. Subjects whose lecturer is unknown are returned as skipped.
func (c *Collector) collectSubjects(ctx context.Context, groups []storedGroup, teachers map[string]int64) ([]dto.SubjectRequest, []dto.CollectorItemResult) {
	timetables := make([][]Activity, len(groups))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(timetableWorkers)
	for i, group := range groups {
		if len(group.upstreamIDs) == 0 {
			continue
		}
		i, upstreamID := i, group.upstreamIDs[0]
		g.Go(func() error {
			activities, err := c.source.Timetable(gctx, upstreamID)
			if err != nil {
				c.logger.Error().Err(err).Str("group", upstreamID).Msg("Timetable unavailable, group has no subjects")
				return nil
			}
			timetables[i] = activities
			return nil
		})
	}
	_ = g.Wait()

	var subjects []dto.SubjectRequest
	var skipped []dto.CollectorItemResult
	for i, group := range groups {
		for _, draft := range TransformSubjects(timetables[i]) {
			teacherID, ok := teachers[draft.Teacher.key()]
			if !ok {
				skipped = append(skipped, dto.CollectorItemResult{
					Name:    draft.Name,
					Status:  statusError,
					Message: fmt.Sprintf("Teacher '%s' not found among synchronized staff", draft.Teacher),
				})
				continue
			}
			assistants := []int64{}
			for _, a := range draft.Assistants {
				if id, ok := teachers[a.key()]; ok && id != teacherID {
					assistants = append(assistants, id)
				}
			}
			subjects = append(subjects, dto.SubjectRequest{
				Name:         draft.Name,
				ShortName:    draft.ShortName,
				GroupID:      group.id,
				TeacherID:    teacherID,
				AssistantIDs: assistants,
			})
		}
	}
	c.logger.Info().Int("subjects", len(subjects)).Int("skipped", len(skipped)).Msg("Subjects transformed")
	return subjects, skipped
}

// storeEach stores items one at a time with the configured delay in between. onStored
// runs for every record the store accepted. Only context cancellation stops the loop.
func storeEach[T any](
	ctx context.Context,
	c *Collector,
	items []T,
	name func(T) string,
	create func(context.Context, T) (int64, error),
	onStored func(T, int64),
) (dto.CollectorSection, error) {
	section := dto.CollectorSection{Count: len(items), Results: make([]dto.CollectorItemResult, 0, len(items))}
	failed := 0
	for i, item := range items {
		if i > 0 {
			if err := pause(ctx, c.options.Delay); err != nil {
				return section, err
			}
		}
		id, err := create(ctx, item)
		if err != nil {
			if ctx.Err() != nil {
				return section, ctx.Err()
			}
			failed++
			c.logger.Error().Err(err).Str("name", name(item)).Msg("Failed to store record")
			section.Results = append(section.Results, dto.CollectorItemResult{Name: name(item), Status: statusError, Message: err.Error()})
			continue
		}
		if onStored != nil {
			onStored(item, id)
		}
		section.Results = append(section.Results, dto.CollectorItemResult{Name: name(item), Status: statusSuccess, ID: id})
	}
	c.logger.Info().Int("stored", len(items)-failed).Int("failed", failed).Msg("Store pass finished")
	return section, nil
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

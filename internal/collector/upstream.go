// Package collector pulls faculty, group, room, staff and timetable data from the
// university timetable service and stores it through the exam scheduler API.
package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

const (
	listTimeout      = 30 * time.Second
	timetableTimeout = 60 * time.Second
	maxBodySize      = 32 << 20
)

// flexString decodes a JSON string or number into its textual form
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	*f = flexString(string(b))
	return nil
}

// flexInt decodes a JSON number or numeric string. Empty, null and malformed values are 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	var raw flexString
	if err := raw.UnmarshalJSON(b); err != nil {
		return err
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// Faculty is a row of the faculties listing
type Faculty struct {
	ID        flexString `json:"id"`
	ShortName string     `json:"shortName"`
	LongName  string     `json:"longName"`
}

// Group is a row of the subgroups listing
type Group struct {
	ID                      flexString `json:"id"`
	GroupName               string     `json:"groupName"`
	FacultyID               flexString `json:"facultyId"`
	StudyYear               flexInt    `json:"studyYear"`
	SpecializationShortName string     `json:"specializationShortName"`
}

// Room is a row of the rooms listing
type Room struct {
	Name         string  `json:"name"`
	ShortName    string  `json:"shortName"`
	BuildingName string  `json:"buildingName"`
	Capacity     flexInt `json:"capacity"`
	Computers    flexInt `json:"computers"`
}

// StaffMember is a row of the teaching staff listing
type StaffMember struct {
	LastName       string `json:"lastName"`
	FirstName      string `json:"firstName"`
	EmailAddress   string `json:"emailAddress"`
	PhoneNumber    string `json:"phoneNumber"`
	FacultyName    string `json:"facultyName"`
	DepartmentName string `json:"departmentName"`
}

// Activity is one timetable entry of a group
type Activity struct {
	TypeLongName     string `json:"typeLongName"`
	TopicLongName    string `json:"topicLongName"`
	TopicShortName   string `json:"topicShortName"`
	TeacherLastName  string `json:"teacherLastName"`
	TeacherFirstName string `json:"teacherFirstName"`
}

// Source reads the upstream timetable service
type Source interface {
	Faculties(ctx context.Context) ([]Faculty, error)
	Groups(ctx context.Context) ([]Group, error)
	Rooms(ctx context.Context) ([]Room, error)
	Staff(ctx context.Context) ([]StaffMember, error)
	Timetable(ctx context.Context, groupID string) ([]Activity, error)
}

// SourceConfig holds the upstream endpoints. TimetableURL contains one %s for the group id.
type SourceConfig struct {
	FacultiesURL string
	GroupsURL    string
	RoomsURL     string
	StaffURL     string
	TimetableURL string
	// Retries is the number of extra attempts after a transient failure
	Retries uint64
	// RetryBase is the first backoff interval
	RetryBase time.Duration
}

type httpSource struct {
	cfg    SourceConfig
	client *http.Client
}

// NewSource creates a Source over HTTP
func NewSource(cfg SourceConfig) Source {
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	return &httpSource{cfg: cfg, client: &http.Client{}}
}

// errUpstreamStatus marks a non-2xx upstream reply
var errUpstreamStatus = errors.New("upstream returned an error status")

func (s *httpSource) get(ctx context.Context, url string, timeout time.Duration, out interface{}) error {
	backoff := retry.WithMaxRetries(s.cfg.Retries, retry.NewExponential(s.cfg.RetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		reqCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := s.client.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return retry.RetryableError(err)
		}
		if resp.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode))
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return fmt.Errorf("%w: %d", errUpstreamStatus, resp.StatusCode)
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decode %s: %w", url, err)
		}
		return nil
	})
}

func (s *httpSource) Faculties(ctx context.Context) ([]Faculty, error) {
	var out []Faculty
	if err := s.get(ctx, s.cfg.FacultiesURL, listTimeout, &out); err != nil {
		return nil, fmt.Errorf("fetch faculties: %w", err)
	}
	return out, nil
}

func (s *httpSource) Groups(ctx context.Context) ([]Group, error) {
	var out []Group
	if err := s.get(ctx, s.cfg.GroupsURL, listTimeout, &out); err != nil {
		return nil, fmt.Errorf("fetch groups: %w", err)
	}
	return out, nil
}

func (s *httpSource) Rooms(ctx context.Context) ([]Room, error) {
	var out []Room
	if err := s.get(ctx, s.cfg.RoomsURL, listTimeout, &out); err != nil {
		return nil, fmt.Errorf("fetch rooms: %w", err)
	}
	return out, nil
}

func (s *httpSource) Staff(ctx context.Context) ([]StaffMember, error) {
	var out []StaffMember
	if err := s.get(ctx, s.cfg.StaffURL, listTimeout, &out); err != nil {
		return nil, fmt.Errorf("fetch staff: %w", err)
	}
	return out, nil
}

// Timetable returns the activities of one upstream group. The service replies with a
// two element array: the activity list and a map of activity ids to group names.
func (s *httpSource) Timetable(ctx context.Context, groupID string) ([]Activity, error) {
	var raw []json.RawMessage
	url := fmt.Sprintf(s.cfg.TimetableURL, groupID)
	if err := s.get(ctx, url, timetableTimeout, &raw); err != nil {
		return nil, fmt.Errorf("fetch timetable of group %s: %w", groupID, err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var activities []Activity
	if err := json.Unmarshal(raw[0], &activities); err != nil {
		return nil, fmt.Errorf("decode timetable of group %s: %w", groupID, err)
	}
	return activities, nil
}

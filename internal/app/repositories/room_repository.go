package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twaaos/examscheduler/internal/app/models"
	"github.com/twaaos/examscheduler/internal/pkg/logger"
)

// IRoomRepository defines room persistence
type IRoomRepository interface {
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id int64) (*models.Room, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Room, error)
	GetAll(ctx context.Context) ([]*models.Room, error)
	GetByBuilding(ctx context.Context, building string) ([]*models.Room, error)
	Update(ctx context.Context, room *models.Room) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// RoomRepository handles room database operations
type RoomRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var roomColumns = []string{"id", "name", "short_name", "building_name", "capacity", "computers"}

func scanRoom(row rowScanner) (*models.Room, error) {
	room := &models.Room{}
	if err := row.Scan(&room.ID, &room.Name, &room.ShortName, &room.BuildingName, &room.Capacity, &room.Computers); err != nil {
		return nil, err
	}
	return room, nil
}

// Create inserts a room and sets its ID
func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Insert("rooms").
		Columns("name", "short_name", "building_name", "capacity", "computers").
		Values(room.Name, room.ShortName, room.BuildingName, room.Capacity, room.Computers).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create room query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&room.ID); err != nil {
		logger.Error().Err(err).Str("name", room.Name).Msg("Error executing create room query")
		return fmt.Errorf("error creating room: %w", err)
	}
	return nil
}

// GetByID retrieves a room by ID
func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	sql, args, err := r.sb.Select(roomColumns...).From("rooms").Where(squirrel.Eq{"id": id}).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get room query: %w", err)
	}

	room, err := scanRoom(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		logger.Error().Err(err).Int64("roomID", id).Msg("Error scanning room row")
		return nil, fmt.Errorf("error getting room by ID: %w", err)
	}
	return room, nil
}

// GetByIDs retrieves the rooms whose IDs are listed. Unknown IDs are ignored.
func (r *RoomRepository) GetByIDs(ctx context.Context, ids []int64) ([]*models.Room, error) {
	if len(ids) == 0 {
		return []*models.Room{}, nil
	}
	return r.list(ctx, squirrel.Eq{"id": ids})
}

// GetAll retrieves all rooms
func (r *RoomRepository) GetAll(ctx context.Context) ([]*models.Room, error) {
	return r.list(ctx, nil)
}

// GetByBuilding retrieves the rooms of a building, matching its name case-insensitively
func (r *RoomRepository) GetByBuilding(ctx context.Context, building string) ([]*models.Room, error) {
	return r.list(ctx, squirrel.Expr("LOWER(building_name) = LOWER(?)", building))
}

func (r *RoomRepository) list(ctx context.Context, where squirrel.Sqlizer) ([]*models.Room, error) {
	q := r.sb.Select(roomColumns...).From("rooms").OrderBy("name ASC", "id ASC")
	if where != nil {
		q = q.Where(where)
	}
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list rooms query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list rooms query")
		return nil, fmt.Errorf("error querying rooms: %w", err)
	}
	defer rows.Close()

	rooms := []*models.Room{}
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning room row: %w", err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating room rows: %w", err)
	}
	return rooms, nil
}

// Update updates an existing room
func (r *RoomRepository) Update(ctx context.Context, room *models.Room) error {
	sql, args, err := r.sb.Update("rooms").
		SetMap(map[string]interface{}{
			"name":          room.Name,
			"short_name":    room.ShortName,
			"building_name": room.BuildingName,
			"capacity":      room.Capacity,
			"computers":     room.Computers,
		}).
		Where(squirrel.Eq{"id": room.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update room query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("roomID", room.ID).Msg("Error executing update room query")
		return fmt.Errorf("error updating room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// Delete deletes a room by ID
func (r *RoomRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM rooms WHERE id = $1", id)
	if err != nil {
		logger.Error().Err(err).Int64("roomID", id).Msg("Error executing delete room query")
		return fmt.Errorf("error deleting room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// DeleteAll removes every room
func (r *RoomRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, "DELETE FROM rooms")
	if err != nil {
		return 0, fmt.Errorf("error deleting rooms: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Package postgres provides a PostgreSQL-backed storage implementation
// for deployments that need durable rooms and sessions. Rooms and
// sessions are stored as JSONB documents keyed by ID, with the join
// code enforced unique at the database level.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pixelden/gameroom/internal/model"
	"github.com/pixelden/gameroom/internal/storage"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach
const uniqueViolation = "23505"

// Schema creates the tables the storage layer expects. Run it once at
// deploy time (or on startup via EnsureSchema).
const Schema = `
CREATE TABLE IF NOT EXISTS rooms (
	id         TEXT PRIMARY KEY,
	code       TEXT NOT NULL UNIQUE,
	game_type  TEXT NOT NULL,
	visibility TEXT NOT NULL,
	status     TEXT NOT NULL,
	is_full    BOOLEAN NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	doc        JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS rooms_open_idx
	ON rooms (game_type, created_at DESC)
	WHERE visibility = 'public' AND status = 'waiting' AND NOT is_full;

CREATE TABLE IF NOT EXISTS sessions (
	id  TEXT PRIMARY KEY,
	doc JSONB NOT NULL
);
`

// Storage is a PostgreSQL-backed implementation of the storage interface
type Storage struct {
	pool *pgxpool.Pool
}

// New connects to PostgreSQL and verifies the connection
func New(ctx context.Context, dsn string) (*Storage, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Storage{pool: pool}, nil
}

// NewWithPool creates a storage with an existing pool (for testing)
func NewWithPool(pool *pgxpool.Pool) *Storage {
	return &Storage{pool: pool}
}

// EnsureSchema applies the schema DDL
func (s *Storage) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, Schema)
	return err
}

// Close closes the connection pool
func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Room operations

func (s *Storage) InsertRoom(ctx context.Context, room *model.Room) error {
	doc, err := json.Marshal(room)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO rooms (id, code, game_type, visibility, status, is_full, created_at, doc)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		room.ID, room.Code, room.GameType, room.Visibility, room.Status,
		room.IsFull(), room.CreatedAt, doc,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return model.ErrRoomCodeTaken
	}
	return err
}

func (s *Storage) GetRoomByID(ctx context.Context, id model.RoomID) (*model.Room, error) {
	return s.scanRoom(s.pool.QueryRow(ctx,
		`SELECT doc FROM rooms WHERE id = $1`, id))
}

func (s *Storage) GetRoomByCode(ctx context.Context, code model.RoomCode) (*model.Room, error) {
	return s.scanRoom(s.pool.QueryRow(ctx,
		`SELECT doc FROM rooms WHERE code = $1`, code))
}

func (s *Storage) scanRoom(row pgx.Row) (*model.Room, error) {
	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrRoomNotFound
		}
		return nil, err
	}
	var room model.Room
	if err := json.Unmarshal(doc, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (s *Storage) UpdateRoom(ctx context.Context, room *model.Room) error {
	doc, err := json.Marshal(room)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE rooms
		 SET visibility = $2, status = $3, is_full = $4, doc = $5
		 WHERE id = $1`,
		room.ID, room.Visibility, room.Status, room.IsFull(), doc,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrRoomNotFound
	}
	return nil
}

func (s *Storage) DeleteRoom(ctx context.Context, id model.RoomID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	return err
}

func (s *Storage) ListOpenRooms(ctx context.Context, gameType model.GameType, limit, offset int) ([]*model.Room, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT doc FROM rooms
		 WHERE visibility = 'public' AND status = 'waiting' AND NOT is_full
		   AND ($1 = '' OR game_type = $1)
		 ORDER BY created_at DESC, id
		 LIMIT $2 OFFSET $3`,
		string(gameType), limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*model.Room, 0)
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, err
		}
		var room model.Room
		if err := json.Unmarshal(doc, &room); err != nil {
			return nil, err
		}
		matches = append(matches, &room)
	}
	return matches, rows.Err()
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.Session) error {
	doc, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO sessions (id, doc) VALUES ($1, $2)
		 ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc`,
		session.ID, doc,
	)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	var doc []byte
	err := s.pool.QueryRow(ctx, `SELECT doc FROM sessions WHERE id = $1`, id).Scan(&doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}
	var session model.Session
	if err := json.Unmarshal(doc, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	return err
}

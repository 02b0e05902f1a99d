package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/DoyleJ11/cardroom-backend/internal/engine"
)

// RoomRecord is one persisted room: the full snapshot as JSON plus the
// columns the server queries on.
type RoomRecord struct {
	ID           string         `gorm:"primaryKey;size:16"`
	Name         string         `gorm:"size:255"`
	Data         datatypes.JSON `gorm:"not null"`
	IsActive     bool           `gorm:"index;not null"`
	LastActivity time.Time      `gorm:"index"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (RoomRecord) TableName() string { return "rooms" }

type RoomSnapshot struct {
	Room         engine.Room
	LastActivity time.Time
}

func EncodeRoom(r engine.Room) (datatypes.JSON, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode room %s: %w", r.ID, err)
	}
	return datatypes.JSON(b), nil
}

func DecodeRoom(data datatypes.JSON) (engine.Room, error) {
	var r engine.Room
	if err := json.Unmarshal(data, &r); err != nil {
		return engine.Room{}, fmt.Errorf("decode room: %w", err)
	}
	return r, nil
}

// SaveRoom upserts the snapshot and marks the room active.
func (s *Store) SaveRoom(ctx context.Context, r engine.Room, lastActive time.Time) error {
	data, err := EncodeRoom(r)
	if err != nil {
		return err
	}

	rec := RoomRecord{
		ID:           r.ID,
		Name:         r.Name,
		Data:         data,
		IsActive:     true,
		LastActivity: lastActive.UTC(),
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "data", "is_active", "last_activity", "updated_at"}),
	}).Create(&rec).Error
	return translate(err)
}

func (s *Store) DeactivateRoom(ctx context.Context, roomID string) error {
	res := s.db.WithContext(ctx).Model(&RoomRecord{}).
		Where("id = ?", roomID).
		Update("is_active", false)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) LoadRoom(ctx context.Context, roomID string) (RoomSnapshot, error) {
	var rec RoomRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", roomID).Error; err != nil {
		return RoomSnapshot{}, translate(err)
	}
	return toSnapshot(rec)
}

// ListActiveRooms returns every room still marked active, oldest activity
// first.
func (s *Store) ListActiveRooms(ctx context.Context) ([]RoomSnapshot, error) {
	var recs []RoomRecord
	err := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("last_activity, id").
		Find(&recs).Error
	if err != nil {
		return nil, translate(err)
	}

	out := make([]RoomSnapshot, 0, len(recs))
	for _, rec := range recs {
		snap, err := toSnapshot(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func toSnapshot(rec RoomRecord) (RoomSnapshot, error) {
	r, err := DecodeRoom(rec.Data)
	if err != nil {
		return RoomSnapshot{}, fmt.Errorf("room %s: %w", rec.ID, err)
	}
	return RoomSnapshot{Room: r, LastActivity: rec.LastActivity}, nil
}

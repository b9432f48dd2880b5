package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkeye/projectchat/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Directory answers project metadata and membership questions.
type Directory struct {
	db *gorm.DB
}

func NewDirectory(db *gorm.DB) *Directory {
	return &Directory{db: db}
}

func (d *Directory) Project(ctx context.Context, pid domain.ProjectID) (*domain.Project, error) {
	var rec projectRecord
	if err := d.db.WithContext(ctx).First(&rec, "id = ?", string(pid)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %s: %w", pid, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: find project: %w", domain.ErrStorage, err)
	}
	return &domain.Project{
		ID:      domain.ProjectID(rec.ID),
		Name:    rec.Name,
		OwnerID: domain.UserID(rec.OwnerID),
	}, nil
}

// IsMember reports whether uid owns or is a member of pid.
// A missing project is domain.ErrNotFound.
func (d *Directory) IsMember(ctx context.Context, pid domain.ProjectID, uid domain.UserID) (bool, error) {
	p, err := d.Project(ctx, pid)
	if err != nil {
		return false, err
	}
	if p.OwnerID == uid {
		return true, nil
	}
	var n int64
	err = d.db.WithContext(ctx).Model(&memberRecord{}).
		Where("project_id = ? AND user_id = ?", string(pid), string(uid)).
		Count(&n).Error
	if err != nil {
		return false, fmt.Errorf("%w: check membership: %w", domain.ErrStorage, err)
	}
	return n > 0, nil
}

// Participants returns the owner followed by the members of pid.
func (d *Directory) Participants(ctx context.Context, pid domain.ProjectID) ([]domain.UserID, error) {
	p, err := d.Project(ctx, pid)
	if err != nil {
		return nil, err
	}
	var recs []memberRecord
	err = d.db.WithContext(ctx).Where("project_id = ?", string(pid)).Order("created_at ASC").Find(&recs).Error
	if err != nil {
		return nil, fmt.Errorf("%w: list members: %w", domain.ErrStorage, err)
	}
	out := []domain.UserID{p.OwnerID}
	for _, r := range recs {
		if domain.UserID(r.UserID) == p.OwnerID {
			continue
		}
		out = append(out, domain.UserID(r.UserID))
	}
	return out, nil
}

func (d *Directory) CreateProject(ctx context.Context, p *domain.Project) error {
	rec := projectRecord{ID: string(p.ID), Name: p.Name, OwnerID: string(p.OwnerID)}
	if err := d.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("%w: create project: %w", domain.ErrStorage, err)
	}
	return nil
}

// AddMember is idempotent.
func (d *Directory) AddMember(ctx context.Context, pid domain.ProjectID, uid domain.UserID) error {
	rec := memberRecord{ProjectID: string(pid), UserID: string(uid)}
	err := d.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("%w: add member: %w", domain.ErrStorage, err)
	}
	return nil
}

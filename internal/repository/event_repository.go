package repository

import (
	"time"

	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type EventRepository interface {
	Create(event *model.Event) error
	FindByID(id uint) (*model.Event, error)
	FindAllByUser(userID uint) ([]model.Event, error)
	// FindDueUnreminded returns events starting inside [from, until] whose
	// reminder mail has not gone out yet, owner preloaded.
	FindDueUnreminded(from, until time.Time) ([]model.Event, error)
	Update(event *model.Event) error
	Delete(id uint) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *model.Event) error {
	return r.db.Create(event).Error
}

func (r *eventRepository) FindByID(id uint) (*model.Event, error) {
	var event model.Event
	if err := r.db.First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) FindAllByUser(userID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Where("user_id = ?", userID).Order("start_time asc").Find(&events).Error
	return events, err
}

func (r *eventRepository) FindDueUnreminded(from, until time.Time) ([]model.Event, error) {
	var events []model.Event
	err := r.db.Preload("User").
		Where("start_time >= ? AND start_time <= ? AND reminder_sent = ?", from, until, false).
		Find(&events).Error
	return events, err
}

func (r *eventRepository) Update(event *model.Event) error {
	return r.db.Save(event).Error
}

func (r *eventRepository) Delete(id uint) error {
	return r.db.Delete(&model.Event{}, id).Error
}

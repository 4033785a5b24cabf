package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// reminderLead is how far before an event its reminder mail goes out.
const reminderLead = 24 * time.Hour

type CalendarService interface {
	CreateEvent(owner *model.User, req dto.EventCreateDTO) (*dto.EventResponseDTO, error)
	ListEvents(owner *model.User) ([]dto.EventResponseDTO, error)
	UpdateEvent(owner *model.User, eventID uint, req dto.EventUpdateDTO) (*dto.EventResponseDTO, error)
	DeleteEvent(owner *model.User, eventID uint) error

	// SendDueReminders mails the owner of every event starting within the
	// next 24 hours, at most once per event. Returns how many were sent.
	SendDueReminders(now time.Time) (int, error)
}

type calendarService struct {
	eventRepo repository.EventRepository
	mailer    Mailer
}

func NewCalendarService(eventRepo repository.EventRepository, mailer Mailer) CalendarService {
	return &calendarService{eventRepo: eventRepo, mailer: mailer}
}

func (s *calendarService) CreateEvent(owner *model.User, req dto.EventCreateDTO) (*dto.EventResponseDTO, error) {
	event := model.Event{
		UserID:      owner.ID,
		Title:       req.Title,
		Description: req.Description,
		StartTime:   req.StartTime,
	}
	if err := s.eventRepo.Create(&event); err != nil {
		return nil, fmt.Errorf("database error creating event: %w", err)
	}
	return eventDTO(&event), nil
}

func (s *calendarService) ListEvents(owner *model.User) ([]dto.EventResponseDTO, error) {
	events, err := s.eventRepo.FindAllByUser(owner.ID)
	if err != nil {
		return nil, fmt.Errorf("error fetching events: %w", err)
	}
	out := make([]dto.EventResponseDTO, 0, len(events))
	for i := range events {
		out = append(out, *eventDTO(&events[i]))
	}
	return out, nil
}

func (s *calendarService) UpdateEvent(owner *model.User, eventID uint, req dto.EventUpdateDTO) (*dto.EventResponseDTO, error) {
	event, err := s.loadOwnedEvent(owner, eventID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		event.Title = req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartTime != nil {
		event.StartTime = *req.StartTime
		// Rescheduling re-arms the reminder.
		event.ReminderSent = false
	}

	if err := s.eventRepo.Update(event); err != nil {
		return nil, fmt.Errorf("error updating event %d: %w", eventID, err)
	}
	return eventDTO(event), nil
}

func (s *calendarService) DeleteEvent(owner *model.User, eventID uint) error {
	if _, err := s.loadOwnedEvent(owner, eventID); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(eventID); err != nil {
		return fmt.Errorf("error deleting event %d: %w", eventID, err)
	}
	return nil
}

func (s *calendarService) SendDueReminders(now time.Time) (int, error) {
	events, err := s.eventRepo.FindDueUnreminded(now, now.Add(reminderLead))
	if err != nil {
		return 0, fmt.Errorf("error fetching due events: %w", err)
	}

	sent := 0
	for i := range events {
		event := &events[i]
		body := fmt.Sprintf("Hola %s,\n\nRecuerda que tienes el evento '%s' el %s.\n\n%s",
			event.User.FirstName, event.Title,
			event.StartTime.Format("02/01/2006 15:04"), event.Description)
		if err := s.mailer.Send(event.User.Email, "Recordatorio: "+event.Title, body); err != nil {
			log.Error().Err(err).Uint("eventID", event.ID).Msg("SendDueReminders: failed to send reminder")
			continue
		}
		event.ReminderSent = true
		if err := s.eventRepo.Update(event); err != nil {
			log.Error().Err(err).Uint("eventID", event.ID).Msg("SendDueReminders: failed to mark reminder sent")
			continue
		}
		sent++
	}

	if sent > 0 {
		log.Info().Int("sent", sent).Msg("Event reminders sent")
	}
	return sent, nil
}

func (s *calendarService) loadOwnedEvent(owner *model.User, eventID uint) (*model.Event, error) {
	event, err := s.eventRepo.FindByID(eventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching event %d: %w", eventID, err)
	}
	if event.UserID != owner.ID {
		return nil, ErrForbidden
	}
	return event, nil
}

func eventDTO(event *model.Event) *dto.EventResponseDTO {
	return &dto.EventResponseDTO{
		ID:           event.ID,
		Title:        event.Title,
		Description:  event.Description,
		StartTime:    event.StartTime,
		ReminderSent: event.ReminderSent,
		CreatedAt:    event.CreatedAt,
	}
}

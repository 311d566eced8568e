package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"deveventshub/internal/domain"
)

const (
	minTitleLength = 3
	// maxSlugAttempts bounds the persist retries when a concurrent writer
	// claims the resolved slug between the availability check and the insert.
	maxSlugAttempts = 5
	// maxSlugCandidates bounds the -1, -2, ... increment loop per base slug.
	maxSlugCandidates = 100
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func (s *eventService) CreateEvent(ctx context.Context, input *domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := buildEvent(input)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	event.CreatedAt = now
	event.UpdatedAt = now

	base := slugBase(event.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.resolveSlug(ctx, base, "")
		if err != nil {
			return nil, err
		}
		event.Slug = slug
		err = s.eventRepo.Create(ctx, event)
		if errors.Is(err, domain.ErrSlugConflict) {
			// A concurrent create claimed the slug; re-resolve and retry.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("create event: %w", err)
		}
		return event, nil
	}
	return nil, fmt.Errorf("create event: %w after %d attempts", domain.ErrSlugConflict, maxSlugAttempts)
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, patch *domain.EventPatch) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	changed, titleChanged, err := applyPatch(event, patch)
	if err != nil {
		return nil, err
	}
	if !changed {
		return event, nil
	}
	event.UpdatedAt = time.Now()

	if !titleChanged {
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		return event, nil
	}

	base := slugBase(event.Title)
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		slug, err := s.resolveSlug(ctx, base, event.ID)
		if err != nil {
			return nil, err
		}
		event.Slug = slug
		err = s.eventRepo.Update(ctx, event)
		if errors.Is(err, domain.ErrSlugConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		return event, nil
	}
	return nil, fmt.Errorf("update event: %w after %d attempts", domain.ErrSlugConflict, maxSlugAttempts)
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event by slug: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, total, err := s.eventRepo.List(ctx, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) ListSimilarEvents(ctx context.Context, eventID string) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		// An unresolvable source event yields an empty list, not an error;
		// genuine storage failures are still surfaced.
		if errors.Is(err, domain.ErrNotFound) {
			return []*domain.Event{}, nil
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	similar, err := s.eventRepo.ListByAnyTag(ctx, event.Tags, event.ID)
	if err != nil {
		return nil, fmt.Errorf("list similar events: %w", err)
	}
	if similar == nil {
		similar = []*domain.Event{}
	}
	return similar, nil
}

// resolveSlug finds the first unused candidate in base, base-1, base-2, ...
// excluding the event being saved. The result is best-effort: the slug unique
// constraint remains the final arbiter under concurrent writers.
func (s *eventService) resolveSlug(ctx context.Context, base, excludeID string) (string, error) {
	candidate := base
	for n := 1; n <= maxSlugCandidates; n++ {
		exists, err := s.eventRepo.SlugExists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("check slug: %w", err)
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return "", fmt.Errorf("no free slug candidate for %q", base)
}

// slugBase derives the slug base for a title. Titles made entirely of special
// characters slugify to the empty string, which would collide under the unique
// constraint for every such title; those fall back to an identifier-derived slug.
func slugBase(title string) string {
	if base := domain.GenerateSlug(title); base != "" {
		return base
	}
	return "event-" + uuid.NewString()[:8]
}

// ValidateEventInput reports every violated field of input without touching
// storage. Callers that must do work between validation and creation, such as
// uploading the event image, run this first; CreateEvent validates again
// before persisting.
func ValidateEventInput(input *domain.EventInput) error {
	_, err := buildEvent(input)
	return err
}

// buildEvent validates an EventInput and returns a normalized Event. Every
// violated field is reported, not just the first; date and time format
// failures are folded into the same validation error.
func buildEvent(input *domain.EventInput) (*domain.Event, error) {
	v := &domain.ValidationError{}

	event := &domain.Event{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Overview:    strings.TrimSpace(input.Overview),
		Organizer:   strings.TrimSpace(input.Organizer),
		Venue:       strings.TrimSpace(input.Venue),
		Location:    strings.TrimSpace(input.Location),
		Audience:    strings.TrimSpace(input.Audience),
		Image:       strings.TrimSpace(input.Image),
		Mode:        strings.TrimSpace(strings.ToLower(input.Mode)),
	}

	if event.Title == "" {
		v.Add("title", "is required")
	} else if utf8.RuneCountInString(event.Title) < minTitleLength {
		v.Add("title", fmt.Sprintf("must be at least %d characters", minTitleLength))
	}
	requireField(v, "description", event.Description)
	requireField(v, "overview", event.Overview)
	requireField(v, "organizer", event.Organizer)
	requireField(v, "venue", event.Venue)
	requireField(v, "location", event.Location)
	requireField(v, "audience", event.Audience)
	requireField(v, "image", event.Image)

	if _, ok := domain.ValidModes[event.Mode]; !ok {
		v.Add("mode", "must be one of online, offline, hybrid")
	}

	if date, err := domain.NormalizeDate(input.Date); err != nil {
		v.Add("date", err.Error())
	} else {
		event.Date = date
	}
	if t, err := domain.NormalizeTime(input.Time); err != nil {
		v.Add("time", err.Error())
	} else {
		event.Time = t
	}

	if event.Agenda = trimAll(input.Agenda); len(event.Agenda) == 0 {
		v.Add("agenda", "must contain at least one item")
	}
	if event.Tags = trimAll(input.Tags); len(event.Tags) == 0 {
		v.Add("tags", "must contain at least one tag")
	}

	if err := v.Err(); err != nil {
		return nil, err
	}
	return event, nil
}

// applyPatch applies the non-nil fields of patch to event, re-normalizing only
// what actually changed. It reports whether anything changed and whether the
// title (and therefore the slug) changed.
func applyPatch(event *domain.Event, patch *domain.EventPatch) (changed, titleChanged bool, err error) {
	v := &domain.ValidationError{}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			v.Add("title", "is required")
		} else if utf8.RuneCountInString(title) < minTitleLength {
			v.Add("title", fmt.Sprintf("must be at least %d characters", minTitleLength))
		} else if title != event.Title {
			event.Title = title
			changed = true
			titleChanged = true
		}
	}
	changed = patchField(v, "description", &event.Description, patch.Description) || changed
	changed = patchField(v, "overview", &event.Overview, patch.Overview) || changed
	changed = patchField(v, "organizer", &event.Organizer, patch.Organizer) || changed
	changed = patchField(v, "venue", &event.Venue, patch.Venue) || changed
	changed = patchField(v, "location", &event.Location, patch.Location) || changed
	changed = patchField(v, "audience", &event.Audience, patch.Audience) || changed
	changed = patchField(v, "image", &event.Image, patch.Image) || changed

	if patch.Mode != nil {
		mode := strings.TrimSpace(strings.ToLower(*patch.Mode))
		if _, ok := domain.ValidModes[mode]; !ok {
			v.Add("mode", "must be one of online, offline, hybrid")
		} else if mode != event.Mode {
			event.Mode = mode
			changed = true
		}
	}
	if patch.Date != nil && *patch.Date != event.Date {
		if date, err := domain.NormalizeDate(*patch.Date); err != nil {
			v.Add("date", err.Error())
		} else if date != event.Date {
			event.Date = date
			changed = true
		}
	}
	if patch.Time != nil && *patch.Time != event.Time {
		if t, err := domain.NormalizeTime(*patch.Time); err != nil {
			v.Add("time", err.Error())
		} else if t != event.Time {
			event.Time = t
			changed = true
		}
	}
	if patch.Agenda != nil {
		if agenda := trimAll(patch.Agenda); len(agenda) == 0 {
			v.Add("agenda", "must contain at least one item")
		} else if !slices.Equal(agenda, event.Agenda) {
			event.Agenda = agenda
			changed = true
		}
	}
	if patch.Tags != nil {
		if tags := trimAll(patch.Tags); len(tags) == 0 {
			v.Add("tags", "must contain at least one tag")
		} else if !slices.Equal(tags, event.Tags) {
			event.Tags = tags
			changed = true
		}
	}

	if err := v.Err(); err != nil {
		return false, false, err
	}
	return changed, titleChanged, nil
}

func requireField(v *domain.ValidationError, name, value string) {
	if value == "" {
		v.Add(name, "is required")
	}
}

func patchField(v *domain.ValidationError, name string, dst *string, src *string) bool {
	if src == nil {
		return false
	}
	value := strings.TrimSpace(*src)
	if value == "" {
		v.Add(name, "is required")
		return false
	}
	if value == *dst {
		return false
	}
	*dst = value
	return true
}

func trimAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

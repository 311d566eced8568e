package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"deveventshub/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository that enforces the slug unique
// constraint the way the real storage layer does.
type fakeEventRepo struct {
	events map[string]*domain.Event
	nextID int
	// forcedConflicts makes the next N Create/Update calls fail with
	// ErrSlugConflict, simulating a concurrent writer claiming the slug
	// between the availability check and the insert.
	forcedConflicts int
	updateCalls     int
	err             error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*domain.Event)}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		return domain.ErrSlugConflict
	}
	for _, ev := range f.events {
		if ev.Slug == e.Slug {
			return domain.ErrSlugConflict
		}
	}
	f.nextID++
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	copied := *e
	f.events[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if f.err != nil {
		return f.err
	}
	f.updateCalls++
	if f.forcedConflicts > 0 {
		f.forcedConflicts--
		return domain.ErrSlugConflict
	}
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, ev := range f.events {
		if id != e.ID && ev.Slug == e.Slug {
			return domain.ErrSlugConflict
		}
	}
	copied := *e
	f.events[e.ID] = &copied
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	ev, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *ev
	return &copied, nil
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, ev := range f.events {
		if strings.EqualFold(ev.Slug, slug) {
			copied := *ev
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) SlugExists(ctx context.Context, slug, excludeID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for id, ev := range f.events {
		if id != excludeID && ev.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeEventRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	out := make([]*domain.Event, 0, len(f.events))
	for _, ev := range f.events {
		copied := *ev
		out = append(out, &copied)
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) ListByAnyTag(ctx context.Context, tags []string, excludeID string) ([]*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	wanted := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		wanted[tag] = struct{}{}
	}
	out := make([]*domain.Event, 0)
	for id, ev := range f.events {
		if id == excludeID {
			continue
		}
		for _, tag := range ev.Tags {
			if _, ok := wanted[tag]; ok {
				copied := *ev
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func validEventInput() *domain.EventInput {
	return &domain.EventInput{
		Title:       "DevCon",
		Description: "The developer conference",
		Overview:    "Two days of talks and workshops",
		Organizer:   "DevCon Org",
		Venue:       "Convention Center",
		Location:    "Berlin",
		Audience:    "Backend developers",
		Image:       "https://images.example/devcon.png",
		Date:        "March 3, 2025",
		Time:        "2:30 PM",
		Mode:        "offline",
		Agenda:      []string{"Opening keynote", "Workshops"},
		Tags:        []string{"go", "cloud"},
	}
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes and derives slug", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		event, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		require.Equal(t, "devcon", event.Slug)
		require.Equal(t, "2025-03-03", event.Date)
		require.Equal(t, "14:30", event.Time)
		require.NotEmpty(t, event.ID)
		require.False(t, event.CreatedAt.IsZero())
	})

	t.Run("same title gets incremented slug", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		first, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		second, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		require.Equal(t, "devcon", first.Slug)
		require.Equal(t, "devcon-1", second.Slug)
	})

	t.Run("aggregates every violated field", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		_, err := svc.CreateEvent(ctx, &domain.EventInput{Title: "ab", Mode: "in-person"})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		joined := strings.Join(vErr.Fields, "\n")
		for _, field := range []string{"title", "description", "overview", "organizer", "venue", "location", "audience", "image", "mode", "date", "time", "agenda", "tags"} {
			require.Contains(t, joined, field)
		}
		require.Empty(t, repo.events, "nothing may be persisted on validation failure")
	})

	t.Run("invalid date and time fold into validation error", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		input := validEventInput()
		input.Date = "someday"
		input.Time = "25:00"
		_, err := svc.CreateEvent(ctx, input)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 2)
	})

	t.Run("retries on slug conflict from concurrent writer", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.forcedConflicts = 2
		svc := NewEventService(repo, time.Second)

		event, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		require.Equal(t, "devcon", event.Slug)
		require.Len(t, repo.events, 1)
	})

	t.Run("exhausted retries surface the conflict", func(t *testing.T) {
		repo := newFakeEventRepo()
		repo.forcedConflicts = maxSlugAttempts
		svc := NewEventService(repo, time.Second)

		_, err := svc.CreateEvent(ctx, validEventInput())
		require.ErrorIs(t, err, domain.ErrSlugConflict)
		require.Empty(t, repo.events, "nothing may be persisted when every attempt conflicts")
	})

	t.Run("multibyte title length is counted in runes", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		short := validEventInput()
		short.Title = "日本"
		_, err := svc.CreateEvent(ctx, short)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Contains(t, strings.Join(vErr.Fields, "\n"), "title")

		ok := validEventInput()
		ok.Title = "日本語"
		_, err = svc.CreateEvent(ctx, ok)
		require.NoError(t, err)
	})

	t.Run("all special character title falls back to generated slug", func(t *testing.T) {
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)

		input := validEventInput()
		input.Title = "!!! ???"
		event, err := svc.CreateEvent(ctx, input)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(event.Slug, "event-"), "got slug %q", event.Slug)
		require.Greater(t, len(event.Slug), len("event-"))
	})
}

func TestEventService_UpdateEvent(t *testing.T) {
	ctx := context.Background()

	seed := func(t *testing.T) (*fakeEventRepo, domain.EventService, *domain.Event) {
		t.Helper()
		repo := newFakeEventRepo()
		svc := NewEventService(repo, time.Second)
		event, err := svc.CreateEvent(ctx, validEventInput())
		require.NoError(t, err)
		repo.updateCalls = 0
		return repo, svc, event
	}

	t.Run("unchanged title keeps slug", func(t *testing.T) {
		_, svc, event := seed(t)
		title := "DevCon"
		desc := "Updated description"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title, Description: &desc})
		require.NoError(t, err)
		require.Equal(t, "devcon", updated.Slug)
		require.Equal(t, "Updated description", updated.Description)
	})

	t.Run("no-op patch does not write", func(t *testing.T) {
		repo, svc, event := seed(t)
		title := "DevCon"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, event.UpdatedAt, updated.UpdatedAt)
		require.Zero(t, repo.updateCalls)
	})

	t.Run("identical agenda and tags do not count as a change", func(t *testing.T) {
		repo, svc, event := seed(t)
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{
			Agenda: []string{"Opening keynote", "Workshops"},
			Tags:   []string{"go", "cloud"},
		})
		require.NoError(t, err)
		require.Equal(t, event.UpdatedAt, updated.UpdatedAt)
		require.Zero(t, repo.updateCalls)
	})

	t.Run("exhausted slug retries surface the conflict", func(t *testing.T) {
		repo, svc, event := seed(t)
		repo.forcedConflicts = maxSlugAttempts

		title := "GopherCon"
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrSlugConflict)

		stored, getErr := repo.GetByID(ctx, event.ID)
		require.NoError(t, getErr)
		require.Equal(t, "devcon", stored.Slug, "stored event must be untouched when every attempt conflicts")
	})

	t.Run("changed title rederives slug excluding self", func(t *testing.T) {
		repo, svc, event := seed(t)
		other := validEventInput()
		other.Title = "GopherCon"
		_, err := svc.CreateEvent(ctx, other)
		require.NoError(t, err)
		repo.updateCalls = 0

		title := "GopherCon"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title})
		require.NoError(t, err)
		require.Equal(t, "gophercon-1", updated.Slug)
	})

	t.Run("rename and rename back is idempotent", func(t *testing.T) {
		_, svc, event := seed(t)
		title := "Other Name"
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &title})
		require.NoError(t, err)
		back := "DevCon"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Title: &back})
		require.NoError(t, err)
		require.Equal(t, "devcon", updated.Slug)
	})

	t.Run("changed date is re-normalized", func(t *testing.T) {
		_, svc, event := seed(t)
		date := "April 1, 2025"
		updated, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Date: &date})
		require.NoError(t, err)
		require.Equal(t, "2025-04-01", updated.Date)
	})

	t.Run("invalid patch values are aggregated", func(t *testing.T) {
		_, svc, event := seed(t)
		mode := "in-person"
		tm := "13:00 PM"
		_, err := svc.UpdateEvent(ctx, event.ID, &domain.EventPatch{Mode: &mode, Time: &tm})
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		require.Len(t, vErr.Fields, 2)
	})

	t.Run("unknown event", func(t *testing.T) {
		_, svc, _ := seed(t)
		title := "Whatever"
		_, err := svc.UpdateEvent(ctx, "ev-missing", &domain.EventPatch{Title: &title})
		require.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestEventService_GetEventBySlug(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo, time.Second)
	created, err := svc.CreateEvent(ctx, validEventInput())
	require.NoError(t, err)

	got, err := svc.GetEventBySlug(ctx, "DevCon")
	require.NoError(t, err)
	require.Equal(t, created.ID, got.ID)

	_, err = svc.GetEventBySlug(ctx, "no-such-event")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEventService_ListSimilarEvents(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEventRepo()
	svc := NewEventService(repo, time.Second)

	mk := func(title string, tags []string) *domain.Event {
		input := validEventInput()
		input.Title = title
		input.Tags = tags
		ev, err := svc.CreateEvent(ctx, input)
		require.NoError(t, err)
		return ev
	}
	source := mk("AI Cloud Summit", []string{"ai", "cloud"})
	sharesAI := mk("AI Meetup", []string{"ai"})
	sharesCloud := mk("Cloud Native Day", []string{"cloud", "kubernetes"})
	disjoint := mk("Frontend Fiesta", []string{"javascript"})

	similar, err := svc.ListSimilarEvents(ctx, source.ID)
	require.NoError(t, err)
	ids := make(map[string]bool, len(similar))
	for _, ev := range similar {
		ids[ev.ID] = true
	}
	require.True(t, ids[sharesAI.ID])
	require.True(t, ids[sharesCloud.ID])
	require.False(t, ids[disjoint.ID])
	require.False(t, ids[source.ID], "source event must be excluded")

	t.Run("unresolvable source yields empty list", func(t *testing.T) {
		similar, err := svc.ListSimilarEvents(ctx, "ev-missing")
		require.NoError(t, err)
		require.Empty(t, similar)
	})

	t.Run("storage error is surfaced", func(t *testing.T) {
		repo.err = domain.ErrStorageUnavailable
		defer func() { repo.err = nil }()
		_, err := svc.ListSimilarEvents(ctx, source.ID)
		require.ErrorIs(t, err, domain.ErrStorageUnavailable)
	})
}

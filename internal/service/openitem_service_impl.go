package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/alexanderramin/crewplan/internal/db"
	"github.com/alexanderramin/crewplan/internal/domain"
	"github.com/alexanderramin/crewplan/internal/repository"
	"github.com/google/uuid"
)

// openItemService serves ListByProject from a per-project cache. Writes drop
// the affected project's entry; the next read reloads it from the store.
type openItemService struct {
	items    repository.OpenItemRepo
	uow      db.UnitOfWork
	observer UseCaseObserver

	mu    sync.Mutex
	cache map[string][]*domain.OpenItem
}

func NewOpenItemService(items repository.OpenItemRepo, uow db.UnitOfWork, observers ...UseCaseObserver) OpenItemService {
	return &openItemService{
		items:    items,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
		cache:    make(map[string][]*domain.OpenItem),
	}
}

func (s *openItemService) Create(ctx context.Context, o *domain.OpenItem) (err error) {
	defer observe(ctx, s.observer, "create-open-item", time.Now(), map[string]any{"project": o.ProjectID}, &err)

	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.Priority == "" {
		o.Priority = domain.PriorityMedium
	}
	if o.Status == "" {
		o.Status = domain.OpenItemOpen
	}
	if err := validateOpenItem(o); err != nil {
		return err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if _, err := repository.NewSQLiteProjectRepo(tx).GetByID(ctx, o.ProjectID); err != nil {
			return mapNotFound(err, "project", o.ProjectID)
		}
		now := time.Now().UTC()
		o.CreatedAt = now
		o.UpdatedAt = now
		return repository.NewSQLiteOpenItemRepo(tx).Create(ctx, o)
	})
	if err != nil {
		return err
	}
	s.Invalidate(o.ProjectID)
	return nil
}

func (s *openItemService) Update(ctx context.Context, o *domain.OpenItem) (err error) {
	defer observe(ctx, s.observer, "update-open-item", time.Now(), map[string]any{"item": o.ID}, &err)

	if err := validateOpenItem(o); err != nil {
		return err
	}
	existing, err := s.items.GetByID(ctx, o.ID)
	if err != nil {
		return mapNotFound(err, "open item", o.ID)
	}
	o.ProjectID = existing.ProjectID
	o.CreatedAt = existing.CreatedAt
	o.UpdatedAt = time.Now().UTC()
	if err := s.items.Update(ctx, o); err != nil {
		return err
	}
	s.Invalidate(o.ProjectID)
	return nil
}

func (s *openItemService) Resolve(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "resolve-open-item", time.Now(), map[string]any{"item": id}, &err)

	o, err := s.items.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "open item", id)
	}
	o.Resolve(time.Now().UTC())
	if err := s.items.Update(ctx, o); err != nil {
		return err
	}
	s.Invalidate(o.ProjectID)
	return nil
}

func (s *openItemService) Delete(ctx context.Context, id string) (err error) {
	defer observe(ctx, s.observer, "delete-open-item", time.Now(), map[string]any{"item": id}, &err)

	o, err := s.items.GetByID(ctx, id)
	if err != nil {
		return mapNotFound(err, "open item", id)
	}
	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}
	s.Invalidate(o.ProjectID)
	return nil
}

// ListByProject serves the cached list when present. Every call returns its
// own copies, so callers may modify the items freely.
func (s *openItemService) ListByProject(ctx context.Context, projectID string) ([]*domain.OpenItem, error) {
	s.mu.Lock()
	cached, ok := s.cache[projectID]
	s.mu.Unlock()
	if ok {
		return cloneOpenItems(cached), nil
	}

	items, err := s.items.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[projectID] = items
	s.mu.Unlock()
	return cloneOpenItems(items), nil
}

func cloneOpenItems(items []*domain.OpenItem) []*domain.OpenItem {
	out := make([]*domain.OpenItem, len(items))
	for i, o := range items {
		c := *o
		c.OwnerID = clonePtr(o.OwnerID)
		c.DueDate = clonePtr(o.DueDate)
		c.ResolvedAt = clonePtr(o.ResolvedAt)
		out[i] = &c
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func (s *openItemService) Invalidate(projectID string) {
	s.mu.Lock()
	delete(s.cache, projectID)
	s.mu.Unlock()
}

func (s *openItemService) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]*domain.OpenItem)
	s.mu.Unlock()
}

func validateOpenItem(o *domain.OpenItem) error {
	o.Title = strings.TrimSpace(o.Title)
	if o.Title == "" {
		return validationErr("open item", o.ID, "title is required")
	}
	if !domain.ValidOpenItemPriorities[o.Priority] {
		return validationErr("open item", o.ID, "unknown priority %q", o.Priority)
	}
	switch o.Status {
	case domain.OpenItemOpen, domain.OpenItemInProgress, domain.OpenItemResolved, domain.OpenItemClosed:
	default:
		return validationErr("open item", o.ID, "unknown status %q", o.Status)
	}
	return nil
}

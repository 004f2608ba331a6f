package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type memoryCourseAccessRepository struct {
	mu      sync.RWMutex
	granted map[string]map[string]time.Time
	now     func() time.Time
}

func NewMemoryCourseAccess() port.CourseAccessRepository {
	return &memoryCourseAccessRepository{
		granted: make(map[string]map[string]time.Time),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

func (r *memoryCourseAccessRepository) GrantCourseAccess(ctx context.Context, ownerID string, courseIDs []string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	for i, courseID := range courseIDs {
		if courseID == "" {
			return fmt.Errorf("courseID[%d] is empty", i)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	courses, ok := r.granted[ownerID]
	if !ok {
		courses = make(map[string]time.Time)
		r.granted[ownerID] = courses
	}

	now := r.now()
	for _, courseID := range courseIDs {
		if _, ok := courses[courseID]; !ok {
			courses[courseID] = now
		}
	}

	return nil
}

func (r *memoryCourseAccessRepository) ListCourseAccess(ctx context.Context, ownerID string) ([]domain.CourseAccess, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	courses := make([]domain.CourseAccess, 0, len(r.granted[ownerID]))
	for courseID, grantedAt := range r.granted[ownerID] {
		courses = append(courses, domain.CourseAccess{CourseID: courseID, GrantedAt: grantedAt})
	}

	sort.Slice(courses, func(i, j int) bool {
		if !courses[i].GrantedAt.Equal(courses[j].GrantedAt) {
			return courses[i].GrantedAt.Before(courses[j].GrantedAt)
		}
		return courses[i].CourseID < courses[j].CourseID
	})

	return courses, nil
}

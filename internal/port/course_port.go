package port

import (
	"context"

	"github.com/nikolayk812/storefront/internal/domain"
)

// CourseAccessRepository records which courses a customer has paid for.
// Granting an already granted course is a no-op.
type CourseAccessRepository interface {
	GrantCourseAccess(ctx context.Context, ownerID string, courseIDs []string) error
	ListCourseAccess(ctx context.Context, ownerID string) ([]domain.CourseAccess, error)
}

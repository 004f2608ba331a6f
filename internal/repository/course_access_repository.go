package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront/internal/db"
	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/nikolayk812/storefront/internal/port"
)

type courseAccessRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewCourseAccess(pool *pgxpool.Pool) port.CourseAccessRepository {
	return &courseAccessRepository{
		q:    db.New(pool),
		pool: pool,
	}
}

// GrantCourseAccess grants all courseIDs or none of them.
func (r *courseAccessRepository) GrantCourseAccess(ctx context.Context, ownerID string, courseIDs []string) error {
	if ownerID == "" {
		return fmt.Errorf("ownerID is empty")
	}
	for i, courseID := range courseIDs {
		if courseID == "" {
			return fmt.Errorf("courseID[%d] is empty", i)
		}
	}
	if len(courseIDs) == 0 {
		return nil
	}

	_, err := withTx(ctx, r.pool, func(q *db.Queries) (struct{}, error) {
		for _, courseID := range courseIDs {
			err := q.GrantCourseAccess(ctx, db.GrantCourseAccessParams{
				OwnerID:  ownerID,
				CourseID: courseID,
			})
			if err != nil {
				return struct{}{}, fmt.Errorf("q.GrantCourseAccess[%s]: %w", courseID, err)
			}
		}
		return struct{}{}, nil
	})

	return err
}

func (r *courseAccessRepository) ListCourseAccess(ctx context.Context, ownerID string) ([]domain.CourseAccess, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("ownerID is empty")
	}

	rows, err := r.q.ListCourseAccess(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("q.ListCourseAccess: %w", err)
	}

	courses := make([]domain.CourseAccess, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, domain.CourseAccess{
			CourseID:  row.CourseID,
			GrantedAt: row.GrantedAt,
		})
	}

	return courses, nil
}

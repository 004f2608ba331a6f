package domain_test

import (
	"testing"

	"github.com/nikolayk812/storefront/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCourseIDs(t *testing.T) {
	items := []domain.LineItem{
		{ID: "c1", Type: domain.ItemTypeCourse},
		{ID: "p1", Type: "product"},
		{ID: "c2", Type: domain.ItemTypeCourse},
		{ID: "c1", Type: domain.ItemTypeCourse},
		{ID: "c3", Type: "service"},
	}

	assert.Equal(t, []string{"c1", "c2"}, domain.CourseIDs(items))
	assert.Empty(t, domain.CourseIDs(nil))
}

package domain

import "time"

// ItemTypeCourse marks line items that unlock course content once paid for.
const ItemTypeCourse = "course"

type CourseAccess struct {
	CourseID  string
	GrantedAt time.Time
}

// CourseIDs returns the distinct ids of course items in order of first appearance.
func CourseIDs(items []LineItem) []string {
	var ids []string
	seen := make(map[string]struct{})

	for _, item := range items {
		if item.Type != ItemTypeCourse {
			continue
		}
		if _, ok := seen[item.ID]; ok {
			continue
		}
		seen[item.ID] = struct{}{}
		ids = append(ids, item.ID)
	}

	return ids
}

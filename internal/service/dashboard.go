package service

import (
	"context"

	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// DashboardStats summarizes the actor's view of the document store.
type DashboardStats struct {
	TotalAccessible int `json:"total_accessible"`
	MyUploads       int `json:"my_uploads"`
	DepartmentDocs  int `json:"department_docs"`
}

// Dashboard is the landing-page payload: counters plus the five most recently
// created documents the actor may view.
type Dashboard struct {
	Stats          DashboardStats   `json:"stats"`
	RecentActivity []model.Document `json:"recent_activity"`
}

// DashboardService assembles the per-user dashboard.
type DashboardService interface {
	Get(ctx context.Context, actor model.Actor) (*Dashboard, error)
}

type dashboardService struct {
	docs repository.DocumentRepository
}

func NewDashboardService(docs repository.DocumentRepository) DashboardService {
	return &dashboardService{docs: docs}
}

func (s *dashboardService) Get(ctx context.Context, actor model.Actor) (*Dashboard, error) {
	// One scoped listing serves both the recent feed and the accessible total.
	recent, err := s.docs.List(ctx, repository.DocumentQuery{
		Actor:   actor,
		SortBy:  "created_at",
		SortDir: "desc",
		Page:    repository.PageQuery{Limit: 5, Offset: 0},
	})
	if err != nil {
		return nil, err
	}

	myUploads, err := s.docs.CountByUploader(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	deptDocs := 0
	if actor.DepartmentID != nil {
		deptDocs, err = s.docs.CountByDepartment(ctx, *actor.DepartmentID)
		if err != nil {
			return nil, err
		}
	}

	return &Dashboard{
		Stats: DashboardStats{
			TotalAccessible: recent.Total,
			MyUploads:       myUploads,
			DepartmentDocs:  deptDocs,
		},
		RecentActivity: recent.Items,
	}, nil
}

package service

import (
	"context"

	"github.com/matkmin/Document-Management-System-Backend/internal/errs"
	"github.com/matkmin/Document-Management-System-Backend/internal/model"
	"github.com/matkmin/Document-Management-System-Backend/internal/repository"
)

// activityLogPageSize is the fixed page size for audit trail listings.
const activityLogPageSize = 50

// ActivityLogListResult is the service-level DTO for paginated audit entries.
type ActivityLogListResult struct {
	Items []model.ActivityLogEntry `json:"data"`
	Total int                      `json:"total"`
	Page  int                      `json:"page"`
}

// ActivityLogService exposes the audit trail to administrators.
type ActivityLogService interface {
	List(ctx context.Context, actor model.Actor, page int) (*ActivityLogListResult, error)
}

type activityLogService struct {
	audit repository.ActivityLogRepository
}

func NewActivityLogService(audit repository.ActivityLogRepository) ActivityLogService {
	return &activityLogService{audit: audit}
}

func (s *activityLogService) List(ctx context.Context, actor model.Actor, page int) (*ActivityLogListResult, error) {
	if actor.Role != model.RoleAdmin {
		return nil, errs.ErrForbidden
	}
	if page < 1 {
		page = 1
	}
	res, err := s.audit.List(ctx, repository.PageQuery{
		Limit:  activityLogPageSize,
		Offset: (page - 1) * activityLogPageSize,
	})
	if err != nil {
		return nil, err
	}
	return &ActivityLogListResult{Items: res.Items, Total: res.Total, Page: page}, nil
}

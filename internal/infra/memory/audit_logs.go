package memory

import (
	"context"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AuditLogRepository struct {
	s session
}

func (r *AuditLogRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.s.do(func(st *state) error {
		log.ID = st.nextID("audit_logs")
		if log.CreatedAt.IsZero() {
			log.CreatedAt = r.s.now()
		}
		st.auditLogs = append(st.auditLogs, log)
		return nil
	})
}

// 新しい順
func (r *AuditLogRepository) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	limit, offset := repo.NormalizeAuditPage(f)

	out := []model.AuditLog{}
	err := r.s.do(func(st *state) error {
		for i := len(st.auditLogs) - 1; i >= 0; i-- {
			l := st.auditLogs[i]
			if f.ActorUserID != nil && l.ActorUserID != *f.ActorUserID {
				continue
			}
			if f.Action != nil && l.Action != *f.Action {
				continue
			}
			if f.ResourceType != nil && l.ResourceType != *f.ResourceType {
				continue
			}
			if f.ResourceID != nil && l.ResourceID != *f.ResourceID {
				continue
			}
			if f.CreatedFrom != nil && l.CreatedAt.Before(*f.CreatedFrom) {
				continue
			}
			if f.CreatedTo != nil && l.CreatedAt.After(*f.CreatedTo) {
				continue
			}
			out = append(out, l)
		}
		out = page(out, offset, limit)
		return nil
	})
	return out, err
}

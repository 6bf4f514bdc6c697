package worker

import (
	"github.com/spec-kit/agency-admin/internal/service"
)

// StartAuditWorker registers audit persistence handlers on the dispatcher.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}

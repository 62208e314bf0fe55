package repository

import (
	"encoding/json"
	"fmt"

	"hangar/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

func (r *Repository) PersistLog(auditlog models.AuditLog, auditLogData interface{}) error {
	dataJSON, err := json.Marshal(auditLogData)
	if err != nil {
		return fmt.Errorf("failed to marshal audit log data: %w", err)
	}

	query := r.GoquDBWrapper.Insert("audit_logs").
		Rows(goqu.Record{
			"resource_id":   auditlog.ResourceID,
			"resource_type": auditlog.ResourceType,
			"action":        auditlog.Action,
			"data":          dataJSON,
		})

	_, err = query.Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *Repository) GetLogs(resourceType string, resourceID int) (*[]models.AuditLog, error) {
	query := r.GoquDBWrapper.
		Select("id", "resource_id", "resource_type", "action", "data", "created_at").
		From("audit_logs").
		Where(goqu.Ex{
			"resource_type": resourceType,
			"resource_id":   resourceID,
		}).
		Order(goqu.I("created_at").Desc())

	var logs []models.AuditLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return &logs, nil
}

package models

import (
	"time"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
)

// AdminLogResponse запись журнала
type AdminLogResponse struct {
	ID        int64                  `json:"id"`
	ActorTgID int64                  `json:"actorTgId"`
	Action    string                 `json:"action"`
	Details   map[string]interface{} `json:"details"`
	CreatedAt time.Time              `json:"createdAt"`
}

// FromDomainAdminLogs конвертирует записи журнала
func FromDomainAdminLogs(entries []*domain.AdminLog) []AdminLogResponse {
	resp := make([]AdminLogResponse, 0, len(entries))
	for _, e := range entries {
		details := e.Details
		if details == nil {
			details = map[string]interface{}{}
		}
		resp = append(resp, AdminLogResponse{
			ID:        e.ID,
			ActorTgID: e.ActorTgID,
			Action:    e.Action,
			Details:   details,
			CreatedAt: e.CreatedAt,
		})
	}
	return resp
}

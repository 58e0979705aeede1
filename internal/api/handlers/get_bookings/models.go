package get_bookings

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-CostumeRentalService/internal/domain"
	"github.com/m04kA/SMC-CostumeRentalService/internal/service/bookings/models"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/ptr"
)

// ParseQuery собирает фильтр из query параметров status, costumeId, size, from, to
// Пустые параметры игнорируются
func ParseQuery(q url.Values) (*models.GetBookingsRequest, error) {
	req := &models.GetBookingsRequest{}

	if status := strings.TrimSpace(q.Get("status")); status != "" {
		req.Status = ptr.Ptr(status)
	}

	if raw := strings.TrimSpace(q.Get("costumeId")); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid costumeId %q", raw)
		}
		req.CostumeID = ptr.Ptr(id)
	}

	if size := strings.TrimSpace(q.Get("size")); size != "" {
		req.Size = ptr.Ptr(size)
	}

	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		from, err := domain.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		req.From = ptr.Ptr(from)
	}

	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		to, err := domain.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		req.To = ptr.Ptr(to)
	}

	return req, nil
}

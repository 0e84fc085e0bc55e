// Package qrpayload builds and parses the URLs encoded in ticket QR codes.
//
//	new:    https://<host>/ticket/<partitionKey>/<eventId>/<ticketId>
//	legacy: https://<host>/ticket/<ticketId>
package qrpayload

import (
	"fmt"
	"net/url"
	"strings"

	"go-gin-ticket-gate/internal/model"
	apperrors "go-gin-ticket-gate/pkg/app_errors"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	PathPrefix = "ticket"

	newFormatSegments    = 4
	legacyFormatSegments = 2

	DefaultPNGSize = 256
)

// BuildURL 產生 QR code 內容
func BuildURL(baseURL string, ref model.TicketRef) string {
	return strings.TrimRight(baseURL, "/") + BuildPath(ref)
}

func BuildPath(ref model.TicketRef) string {
	if ref.Legacy {
		return fmt.Sprintf("/%s/%s", PathPrefix, url.PathEscape(ref.TicketID))
	}
	return fmt.Sprintf("/%s/%s/%s/%s",
		PathPrefix,
		url.PathEscape(ref.PartitionKey),
		ref.EventID.String(),
		url.PathEscape(ref.TicketID),
	)
}

// Parse 接受完整 URL 或只有 path，依 segment 數判斷新舊格式
func Parse(raw string) (model.TicketRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.TicketRef{}, apperrors.ErrMalformedReference
	}
	u, err := url.Parse(raw)
	if err != nil {
		return model.TicketRef{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedReference, err)
	}
	return ParsePath(u.Path)
}

// ParsePath 解析已 decode 的 path
func ParsePath(path string) (model.TicketRef, error) {
	path = strings.TrimSuffix(strings.TrimPrefix(path, "/"), "/")
	segments := strings.Split(path, "/")

	if segments[0] != PathPrefix {
		return model.TicketRef{}, fmt.Errorf("%w: path must start with /%s/", apperrors.ErrMalformedReference, PathPrefix)
	}
	for _, s := range segments {
		if s == "" {
			return model.TicketRef{}, fmt.Errorf("%w: empty path segment", apperrors.ErrMalformedReference)
		}
	}

	switch len(segments) {
	case newFormatSegments:
		eventID, err := uuid.Parse(segments[2])
		if err != nil {
			return model.TicketRef{}, fmt.Errorf("%w: invalid event id", apperrors.ErrMalformedReference)
		}
		return model.TicketRef{
			PartitionKey: segments[1],
			EventID:      eventID,
			TicketID:     segments[3],
		}, nil
	case legacyFormatSegments:
		return model.LegacyTicketRef(segments[1]), nil
	default:
		return model.TicketRef{}, fmt.Errorf("%w: unexpected %d path segments", apperrors.ErrMalformedReference, len(segments))
	}
}

// PNG 將內容繪製成 QR code 圖片
func PNG(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultPNGSize
	}
	return qrcode.Encode(content, qrcode.Medium, size)
}

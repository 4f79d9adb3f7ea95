package scheduler

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TaskRefreshVCardQRCode = "vcards.qrcode.refresh"

type RefreshVCardQRCodePayload struct {
	VCardID string `json:"vcardId"`
}

func NewRefreshVCardQRCodeTask(payload RefreshVCardQRCodePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRefreshVCardQRCode, data), nil
}

func ParseRefreshVCardQRCodePayload(task *asynq.Task) (RefreshVCardQRCodePayload, error) {
	var payload RefreshVCardQRCodePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return RefreshVCardQRCodePayload{}, err
	}
	return payload, nil
}

// ParseVCardID parses the payload's vCard id.
func (p RefreshVCardQRCodePayload) ParseVCardID() (uuid.UUID, error) {
	id, err := uuid.Parse(p.VCardID)
	if err != nil {
		return uuid.UUID{}, fmt.Errorf("invalid vcard id %q: %w", p.VCardID, err)
	}
	return id, nil
}

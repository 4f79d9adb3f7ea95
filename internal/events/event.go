package events

import (
	"cardshare_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// vCard Domain Events
// =============================================================================

// VCardSaved is published after a vCard is created or updated.
type VCardSaved struct {
	BaseEvent
	VCardID   uuid.UUID `json:"vcardId"`
	HasQRCode bool      `json:"hasQrCode"`
}

func (e VCardSaved) EventName() string { return "vcards.vcard.saved" }

// VCardDeleted is published after a vCard is removed.
type VCardDeleted struct {
	BaseEvent
	VCardID     uuid.UUID `json:"vcardId"`
	LogoFileKey string    `json:"logoFileKey,omitempty"`
}

func (e VCardDeleted) EventName() string { return "vcards.vcard.deleted" }

// =============================================================================
// Catalogue Domain Events
// =============================================================================

// CatalogueDeleted is published after a catalogue and its products are removed.
type CatalogueDeleted struct {
	BaseEvent
	CatalogueID uuid.UUID `json:"catalogueId"`
	FileKeys    []string  `json:"fileKeys,omitempty"`
}

func (e CatalogueDeleted) EventName() string { return "catalogues.catalogue.deleted" }

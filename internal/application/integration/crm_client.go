package integration

import (
	"context"
)

// Ecomm bridge object types
const (
	CRMObjectTypeContact  = "CONTACT"
	CRMObjectTypeDeal     = "DEAL"
	CRMObjectTypeLineItem = "LINE_ITEM"
	CRMObjectTypeProduct  = "PRODUCT"
)

// CRMSyncMessage is one UPSERT record for the ecomm bridge sync
// endpoint
type CRMSyncMessage struct {
	IntegratorObjectID      string            `json:"integratorObjectId"`
	Action                  string            `json:"action"`
	ChangeOccurredTimestamp int64             `json:"changeOccurredTimestamp"`
	PropertyNameToValues    map[string]string `json:"propertyNameToValues"`
}

// CRMSyncError is one failed sync record reported by the bridge
type CRMSyncError struct {
	PortalID           int64  `json:"portalId"`
	ObjectType         string `json:"objectType"`
	IntegratorObjectID string `json:"integratorObjectId"`
	Type               string `json:"type"`
	Details            string `json:"details"`
	ErrorTimestamp     int64  `json:"errorTimestamp"`
}

// CRMClient talks to the CRM ecomm bridge
type CRMClient interface {
	// MakeSyncMessage builds an UPSERT sync message with nil property
	// values scrubbed to empty strings
	MakeSyncMessage(objectID string, properties map[string]any) CRMSyncMessage

	// SyncObjects submits a batch of sync messages for one object type
	SyncObjects(ctx context.Context, objectType string, messages []CRMSyncMessage) error

	// GetSyncErrors pages through sync errors reported since the given
	// timestamp in milliseconds
	GetSyncErrors(ctx context.Context, sinceMillis int64, limit, offset int) ([]CRMSyncError, int, error)
}

// internal/messaging/topics.go
package messaging

import "time"

type ChangeTopic string

const (
	CatalogChanged ChangeTopic = "catalog_changed"
)

type ChangeAction string

const (
	ActionCreated  ChangeAction = "created"
	ActionUpdated  ChangeAction = "updated"
	ActionDeleted  ChangeAction = "deleted"
	ActionReloaded ChangeAction = "reloaded"
)

// CatalogChange announces that the product list behind the catalog moved.
// ProductID is empty for whole-catalog events.
type CatalogChange struct {
	Action    ChangeAction `json:"action"`
	ProductID string       `json:"product_id,omitempty"`
	At        time.Time    `json:"at"`
}

func NewChange(action ChangeAction, productID string) CatalogChange {
	return CatalogChange{Action: action, ProductID: productID, At: time.Now().UTC()}
}

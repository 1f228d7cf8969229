package clickup

import (
	"context"
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/Sternrassler/clickup-client/pkg/client"
)

// WebhookCreate registers an endpoint for events. At most one of the
// location fields may narrow the subscription; none means the whole
// workspace.
type WebhookCreate struct {
	Endpoint string   `json:"endpoint"`
	Events   []string `json:"events"`
	SpaceID  int64    `json:"space_id,omitempty"`
	FolderID int64    `json:"folder_id,omitempty"`
	ListID   int64    `json:"list_id,omitempty"`
	TaskID   string   `json:"task_id,omitempty"`
}

var errMultipleLocations = errors.New("only one of space, folder, list or task may be set")

// Validate checks the payload.
func (w WebhookCreate) Validate() error {
	set := 0
	for _, ok := range []bool{w.SpaceID != 0, w.FolderID != 0, w.ListID != 0, w.TaskID != ""} {
		if ok {
			set++
		}
	}
	err := validation.ValidateStruct(&w,
		validation.Field(&w.Endpoint, validation.Required, is.URL),
		validation.Field(&w.Events, validation.Required, validation.Each(validation.Required)),
	)
	if err != nil {
		return err
	}
	if set > 1 {
		return errMultipleLocations
	}
	return nil
}

// WebhookScope addresses one webhook.
type WebhookScope struct {
	api *API
	id  string
}

// ID returns the webhook ID.
func (w WebhookScope) ID() string { return w.id }

// Delete removes the webhook.
func (w WebhookScope) Delete(ctx context.Context) error {
	req := client.NewRequest(http.MethodDelete, "webhook/{webhook_id}").WithPathParam("webhook_id", w.id)
	return w.api.do(ctx, req, nil)
}

package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/ibrahimdesign/atelier/app/jobs"
	"github.com/ibrahimdesign/atelier/config"
	"github.com/ibrahimdesign/atelier/pkg/logger"
	"github.com/ibrahimdesign/atelier/pkg/queue"
	"github.com/ibrahimdesign/atelier/pkg/response"
)

const signatureHeader = "X-Webhook-Signature"

const maxWebhookBytes = 1 << 20 // 1 MB

// WebhookController receives identity-provider and order events and turns
// them into queue jobs. Handlers acknowledge with 200 as soon as the jobs
// are enqueued; processing happens in the workers.
type WebhookController struct{}

func NewWebhookController() *WebhookController {
	return &WebhookController{}
}

// verify checks the hex HMAC-SHA256 of the raw body against the signature
// header and returns the body on success.
func verify(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBytes))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Could not read body")
		return nil, false
	}

	secret := config.WebhookSecret()
	if secret == "" {
		// Local development: no secret configured, accept unsigned events.
		return body, true
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(r.Header.Get(signatureHeader))) {
		response.Unauthorized(w)
		return nil, false
	}
	return body, true
}

type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Email    string `json:"email"`
		ImageURL string `json:"imageUrl"`
		Role     string `json:"role"`
	} `json:"data"`
}

// Identity handles POST /api/webhooks/identity: user.created, user.updated
// and user.deleted lifecycle events.
func (c *WebhookController) Identity(w http.ResponseWriter, r *http.Request) {
	body, ok := verify(w, r)
	if !ok {
		return
	}

	var ev identityEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid event payload")
		return
	}

	var err error
	switch ev.Type {
	case "user.created", "user.updated":
		err = queue.Dispatch(jobs.SyncUserJobName, &jobs.SyncUserJob{
			UserID:   ev.Data.ID,
			Name:     ev.Data.Name,
			Email:    ev.Data.Email,
			ImageURL: ev.Data.ImageURL,
			Role:     ev.Data.Role,
		})
	case "user.deleted":
		err = queue.Dispatch(jobs.DeleteUserJobName, &jobs.DeleteUserJob{UserID: ev.Data.ID})
	default:
		response.Error(w, http.StatusBadRequest, "Unknown event type: "+ev.Type)
		return
	}

	if err != nil {
		logger.WithCtx(r.Context()).Error("webhook dispatch failed", "type", ev.Type, "error", err)
		response.Error(w, http.StatusInternalServerError, "Could not enqueue event")
		return
	}

	response.Message(w, "Accepted")
}

type orderEventsPayload struct {
	Events []jobs.OrderEvent `json:"events"`
}

// Orders handles POST /api/webhooks/orders: order/created events, chunked
// into batch jobs of at most jobs.MaxOrderBatch each.
func (c *WebhookController) Orders(w http.ResponseWriter, r *http.Request) {
	body, ok := verify(w, r)
	if !ok {
		return
	}

	var payload orderEventsPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid event payload")
		return
	}
	if len(payload.Events) == 0 {
		response.Error(w, http.StatusBadRequest, "No events")
		return
	}
	for _, ev := range payload.Events {
		if ev.EventID == "" {
			response.Error(w, http.StatusBadRequest, "Event missing eventId")
			return
		}
	}

	for start := 0; start < len(payload.Events); start += jobs.MaxOrderBatch {
		end := min(start+jobs.MaxOrderBatch, len(payload.Events))
		job := &jobs.OrderBatchJob{Events: payload.Events[start:end]}
		if err := queue.Dispatch(jobs.OrderBatchJobName, job); err != nil {
			logger.WithCtx(r.Context()).Error("order batch dispatch failed", "error", err)
			response.Error(w, http.StatusInternalServerError, "Could not enqueue events")
			return
		}
	}

	response.Message(w, "Accepted")
}

// Package handlers exposes the notification inbox and live stream over HTTP.
package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/ghuser/auctionhouse/pkg/auth"
	"github.com/ghuser/auctionhouse/pkg/errhttp"
	"github.com/ghuser/auctionhouse/pkg/httpx"
	"github.com/ghuser/auctionhouse/pkg/logger"
	"github.com/ghuser/auctionhouse/pkg/realtime"
	appsvcs "github.com/ghuser/auctionhouse/services/notification/application/services"
	"github.com/ghuser/auctionhouse/services/notification/domain/models"
)

// NotificationPageResponse is one page of the caller's notifications.
type NotificationPageResponse struct {
	Items []appsvcs.View `json:"items"`
	Total int            `json:"total" example:"12"`
	Page  int            `json:"page"  example:"0"`
	Size  int            `json:"size"  example:"20"`
} // @name NotificationPageResponse

// UnreadCountResponse is returned by GET /notifications/unread/count.
type UnreadCountResponse struct {
	Unread int `json:"unread" example:"3"`
} // @name UnreadCountResponse

// MarkAllReadResponse reports how many notifications changed.
type MarkAllReadResponse struct {
	Updated int `json:"updated" example:"3"`
} // @name MarkAllReadResponse

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"notification not found"`
} // @name NotificationErrorResponse

// NotificationHandler serves /notifications. Every route requires auth.
type NotificationHandler struct {
	svc *appsvcs.Services
	hub *realtime.Hub
	log logger.Logger
}

// NewNotificationHandler returns a handler; hub may be nil when live push is disabled.
func NewNotificationHandler(svc *appsvcs.Services, hub *realtime.Hub, log logger.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, hub: hub, log: log.With("component", "notification_handler")}
}

// List returns the caller's notifications, newest first.
//
//	@Summary	List notifications
//	@Tags		notifications
//	@Produce	json
//	@Param		page	query		int	false	"Page number (0-based)"
//	@Param		size	query		int	false	"Page size (1-100)"
//	@Success	200		{object}	NotificationPageResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.Inbox.List)
}

// Unread returns the caller's unread notifications.
//
//	@Summary	List unread notifications
//	@Tags		notifications
//	@Produce	json
//	@Param		page	query		int	false	"Page number (0-based)"
//	@Param		size	query		int	false	"Page size (1-100)"
//	@Success	200		{object}	NotificationPageResponse
//	@Failure	401		{object}	ErrorResponse
//	@Router		/notifications/unread [get]
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, h.svc.Inbox.ListUnread)
}

type listFunc func(context.Context, uuid.UUID, models.PageRequest) (*models.Page, error)

func (h *NotificationHandler) list(w http.ResponseWriter, r *http.Request, fetch listFunc) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	page, err := httpx.ParsePage(r)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	res, err := fetch(r.Context(), actor.UserID, models.PageRequest{Number: page.Number, Size: page.Size})
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}

	items := make([]appsvcs.View, len(res.Items))
	for i, n := range res.Items {
		items[i] = appsvcs.ToView(n)
	}
	httpx.JSON(w, http.StatusOK, NotificationPageResponse{Items: items, Total: res.Total, Page: res.Number, Size: res.Size})
}

// UnreadCount returns how many unread notifications the caller has.
//
//	@Summary	Count unread notifications
//	@Tags		notifications
//	@Produce	json
//	@Success	200	{object}	UnreadCountResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/notifications/unread/count [get]
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	n, err := h.svc.Inbox.CountUnread(r.Context(), actor.UserID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, UnreadCountResponse{Unread: n})
}

// MarkRead marks one of the caller's notifications as read.
//
//	@Summary	Mark notification read
//	@Tags		notifications
//	@Produce	json
//	@Param		id	path		string	true	"Notification ID"	format(uuid)
//	@Success	200	{object}	appsvcs.View
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	n, err := h.svc.Inbox.MarkRead(r.Context(), actor.UserID, id)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, appsvcs.ToView(n))
}

// MarkAllRead marks all of the caller's notifications as read.
//
//	@Summary	Mark all notifications read
//	@Tags		notifications
//	@Produce	json
//	@Success	200	{object}	MarkAllReadResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	n, err := h.svc.Inbox.MarkAllRead(r.Context(), actor.UserID)
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, MarkAllReadResponse{Updated: n})
}

// Delete removes one of the caller's notifications.
//
//	@Summary	Delete notification
//	@Tags		notifications
//	@Param		id	path	string	true	"Notification ID"	format(uuid)
//	@Success	204
//	@Failure	403	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/notifications/{id} [delete]
func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	id, err := httpx.URLParamUUID(r, "id")
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if err := h.svc.Inbox.Delete(r.Context(), actor.UserID, id); err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.NoContent(w)
}

// Stream pushes the caller's new notifications as server-sent events.
//
//	@Summary		Notification stream
//	@Description	Server-sent events; each event is named NotificationCreated and carries a Notification.
//	@Tags			notifications
//	@Produce		text/event-stream
//	@Success		200
//	@Failure		401	{object}	ErrorResponse
//	@Failure		503	{object}	ErrorResponse
//	@Router			/notifications/stream [get]
func (h *NotificationHandler) Stream(w http.ResponseWriter, r *http.Request) {
	actor, err := auth.ActorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	if h.hub == nil {
		httpx.JSONError(w, http.StatusServiceUnavailable, "live notifications are disabled")
		return
	}

	c := h.hub.NewClient(actor.UserID)
	defer h.hub.CloseClient(c)
	h.log.DebugContext(r.Context(), "notification stream opened", "user_id", actor.UserID, "client_id", c.ID)
	h.hub.ServeHTTP(w, r, c)
}

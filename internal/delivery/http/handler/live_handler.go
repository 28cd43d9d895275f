package handler

import (
	"net/http"

	"hospital-portal/internal/live"
	"hospital-portal/pkg/response"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type LiveHandler struct {
	log      *logrus.Logger
	hub      *live.Hub
	relay    *live.Relay
	upgrader websocket.Upgrader
}

// NewLiveHandler accepts upgrades from allowedOrigin, or from any origin when it is "*" or empty.
func NewLiveHandler(log *logrus.Logger, hub *live.Hub, relay *live.Relay, allowedOrigin string) *LiveHandler {
	return &LiveHandler{
		log:   log,
		hub:   hub,
		relay: relay,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" || allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

// Connect upgrades to a websocket bound to the caller's own topic
// @Summary Live view stream
// @Description Pushes the full current view of the caller's role after every change. The topic is chosen by the server.
// @Tags Live
// @Security BearerAuth
// @Param access_token query string false "Access token when headers cannot be set"
// @Success 101
// @Failure 401 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /live [get]
func (h *LiveHandler) Connect(w http.ResponseWriter, r *http.Request) {
	profile, ok := currentProfile(r)
	if !ok {
		response.ServiceUnavailable(w, "Unable to load user profile", "")
		return
	}

	topic := live.TopicFor(profile)
	initial, err := h.relay.View(r.Context(), topic)
	if err != nil {
		h.log.WithField("topic", topic).Warnf("Failed to project initial live view: %+v", err)
		writeError(w, err, "Failed to load live view")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already answered the request.
		h.log.Warnf("Failed to upgrade live connection: %+v", err)
		return
	}

	client := h.hub.Attach(conn, topic, initial)
	h.log.WithFields(logrus.Fields{
		"client_id": client.ID,
		"topic":     topic,
		"user_id":   profile.ID,
	}).Info("Live client connected")
}

package realtime

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/igm/sockjs-go/sockjs"
	"github.com/rs/zerolog/log"
)

const Prefix = "/realtime"

// NewHandler serves the SockJS endpoint, plus a plain websocket at
// Prefix+"/websocket" for clients without a SockJS library. Clients receive
// nothing until they send a subscribe message.
func NewHandler(h *Hub) http.Handler {
	opts := sockjs.DefaultOptions
	opts.RawWebsocket = true

	return sockjs.NewHandler(Prefix, opts, func(session sockjs.Session) {
		client := NewClient(uuid.NewString())
		h.Register(client)
		defer h.Unregister(client)

		go func() {
			for msg := range client.Send {
				if err := session.Send(string(msg)); err != nil {
					return
				}
			}
		}()

		for {
			raw, err := session.Recv()
			if err != nil {
				return
			}

			msg, ok := ParseControl([]byte(raw))
			if !ok {
				log.Debug().Str("client_id", client.ID).Msg("ignoring realtime message")
				continue
			}

			if msg.Action == "unsubscribe" {
				h.Unsubscribe(client)
				continue
			}
			h.Subscribe(client, msg.Subscription())
		}
	})
}

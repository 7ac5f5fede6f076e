package http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/classmeet/server/internal/core/domain"
	"github.com/classmeet/server/internal/core/service"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// TODO: restrict to configured origins once the web client is deployed
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSClient wraps one websocket connection. Responses and pushed events share
// the connection, so writes are serialized with a mutex.
type WSClient struct {
	id   domain.ConnectionID
	conn *websocket.Conn

	mu sync.Mutex
}

func (c *WSClient) ID() domain.ConnectionID {
	return c.id
}

func (c *WSClient) Notify(eventName string, data any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(event{Event: eventName, Data: data})
}

func (c *WSClient) reply(resp response) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteJSON(resp)
}

func (c *WSClient) Close() error {
	return c.conn.Close()
}

// ServeWS upgrades the connection and runs the signaling session until the
// client goes away.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("Error while upgrading ws")
		return
	}

	client := &WSClient{
		id:   domain.NewConnectionID(),
		conn: conn,
	}

	l := log.With().Str("connection_id", client.id.String()).Logger()
	l.Info().Msg("New client connected")

	session := h.Signaling.NewSession(client)

	defer func() {
		l.Info().Msg("Client disconnected")
		session.Disconnect(context.Background())
		conn.Close()
	}()

	for {
		var req request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				l.Error().Err(err).Msg("Unexpected close error")
			}
			break
		}

		resp := h.dispatch(r.Context(), session, req)
		if err := client.reply(resp); err != nil {
			l.Error().Err(err).Msg("Failed to write response")
			break
		}
	}
}

// dispatch routes one request to the session and shapes the reply. Operation
// errors go back to this connection only.
func (h *Handler) dispatch(ctx context.Context, session *service.Session, req request) response {
	data, err := h.handle(ctx, session, req)
	if err != nil {
		return response{ID: req.ID, OK: false, Error: toWireError(err)}
	}
	return response{ID: req.ID, OK: true, Data: data}
}

func (h *Handler) handle(ctx context.Context, session *service.Session, req request) (any, error) {
	switch req.Method {
	case "join":
		var d joinData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		caps, err := session.Join(ctx, domain.RoomID(d.RoomID), d.DisplayName)
		if err != nil {
			return nil, err
		}
		return capabilitiesData{RtpCapabilities: caps}, nil

	case "getCapabilities":
		return capabilitiesData{RtpCapabilities: session.Capabilities()}, nil

	case "createTransport":
		var d createTransportData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		return session.CreateTransport(ctx, domain.TransportDirection(d.Direction))

	case "connectTransport":
		var d connectTransportData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		if err := session.ConnectTransport(ctx, d.TransportID, d.DtlsParameters); err != nil {
			return nil, err
		}
		return ack{}, nil

	case "produce":
		var d produceData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		producerID, err := session.Produce(ctx, d.TransportID, domain.MediaKind(d.Kind), d.RtpParameters, d.AppTag)
		if err != nil {
			return nil, err
		}
		return produceResult{ProducerID: producerID}, nil

	case "consume":
		var d consumeData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		return session.Consume(ctx, d.TransportID, d.ProducerID, d.RtpCapabilities)

	case "resumeConsumer":
		var d resumeConsumerData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		if err := session.ResumeConsumer(ctx, d.ConsumerID); err != nil {
			return nil, err
		}
		return ack{}, nil

	case "closeProducer":
		var d closeProducerData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		if err := session.CloseProducer(ctx, d.ProducerID); err != nil {
			return nil, err
		}
		return ack{}, nil

	case "chatMessage":
		var d chatData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		if err := session.Chat(ctx, d.Text); err != nil {
			return nil, err
		}
		return ack{}, nil

	case "screenShare":
		var d screenShareData
		if err := json.Unmarshal(req.Data, &d); err != nil {
			return nil, err
		}
		if err := session.ScreenShare(ctx, d.Sharing, d.ProducerID); err != nil {
			return nil, err
		}
		return ack{}, nil

	default:
		return nil, errUnknownMethod(req.Method)
	}
}

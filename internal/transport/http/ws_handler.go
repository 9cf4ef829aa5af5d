package http

import (
	"encoding/json"
	"log"
	"net/http"

	"trivia-arena-service/internal/app"
	"trivia-arena-service/internal/domain"
	"github.com/gorilla/websocket"
)

// WSHandler exposes the game operations over a websocket. Each inbound
// message names an operation; a successful start additionally subscribes the
// connection to live status pushes for that session.
type WSHandler struct {
	service  *app.GameService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type startPayload struct {
	SessionID  string `json:"sessionId"`
	PlayerName string `json:"playerName"`
}

type answerPayload struct {
	SessionID string `json:"sessionId"`
	Player    string `json:"player"`
	Answer    string `json:"answer"`
}

type sessionPayload struct {
	SessionID string `json:"sessionId"`
}

type catalogPayload struct {
	Limit      int                 `json:"limit"`
	Type       domain.QuestionType `json:"type"`
	Difficulty int                 `json:"difficulty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the game use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	var unsubscribe func()
	var pumpDone chan struct{}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid start payload")
				continue
			}
			status, err := h.service.StartGame(r.Context(), payload.SessionID, payload.PlayerName)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "gameStarted", Payload: status}
			if unsubscribe == nil {
				updates, cancel, err := h.service.Subscribe(r.Context(), payload.SessionID)
				if err == nil {
					unsubscribe = cancel
					pumpDone = make(chan struct{})
					go pumpUpdates(updates, send, closeSignals, pumpDone)
				}
			}
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid answer payload")
				continue
			}
			status, err := h.service.SubmitAnswer(r.Context(), payload.SessionID, payload.Player, payload.Answer)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "answerAccepted", Payload: status}
		case "status":
			var payload sessionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid status payload")
				continue
			}
			status, err := h.service.GameStatus(r.Context(), payload.SessionID)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "status", Payload: status}
		case "question":
			var payload sessionPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid question payload")
				continue
			}
			card, err := h.service.CurrentQuestion(r.Context(), payload.SessionID)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "question", Payload: card}
		case "listQuestions":
			var payload catalogPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid listQuestions payload")
				continue
			}
			questions, err := h.service.ListQuestions(r.Context(), payload.Limit, payload.Type, payload.Difficulty)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "questions", Payload: questions}
		case "randomQuestion":
			var payload catalogPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errMsg("invalid randomQuestion payload")
				continue
			}
			question, err := h.service.RandomQuestion(r.Context(), payload.Type, payload.Difficulty)
			if err != nil {
				send <- errMsg(err.Error())
				continue
			}
			send <- outboundMessage[any]{Type: "randomQuestion", Payload: question}
		default:
			send <- errMsg("unsupported message type")
		}
	}

	close(closeSignals)
	if unsubscribe != nil {
		unsubscribe()
		<-pumpDone
	}
	close(send)
	<-writerDone
}

func pumpUpdates(updates <-chan domain.SessionStatus, send chan<- outboundMessage[any], closeSignals <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			select {
			case send <- outboundMessage[any]{Type: "status", Payload: update}:
			case <-closeSignals:
				return
			}
		case <-closeSignals:
			return
		}
	}
}

func errMsg(message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: message}}
}

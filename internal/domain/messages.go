package domain

import "fmt"

// Envelope types from client (native stack).
const (
	MsgTypeChat = "chat"
)

// Envelope types from client (events stack).
const (
	MsgTypeJoinRoom = "join-room"
	MsgTypeSendMsg  = "send-msg"
)

// Envelope types to client.
const (
	MsgTypeWelcome      = "welcome"
	MsgTypeChatResponse = "chatResponse"
	MsgTypeError        = "error"
	MsgTypeHistory      = "history"
	MsgTypeUserList     = "user-list"
	MsgTypeReceiveMsg   = "receive-msg"
)

// WelcomeText is sent on every new connection.
const WelcomeText = "Welcome to the chat!"

// OutboundEnvelope is the serialized form of every server-to-client message.
type OutboundEnvelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client -> Server payloads

type JoinRoomPayload struct {
	RoomName string `json:"roomName"`
	User     string `json:"user"`
}

type SendMsgPayload struct {
	RoomName string `json:"roomName"`
	From     string `json:"from"`
	Msg      string `json:"msg"`
}

// MessageRecord is one entry in a room's bounded history log. Immutable
// once appended; Time is wall-clock epoch milliseconds.
type MessageRecord struct {
	From string `json:"from"`
	Text string `json:"text"`
	Time int64  `json:"time"`
}

func NewWelcome() *OutboundEnvelope {
	return &OutboundEnvelope{Type: MsgTypeWelcome, Payload: WelcomeText}
}

func NewChatResponse(text string) *OutboundEnvelope {
	return &OutboundEnvelope{Type: MsgTypeChatResponse, Payload: "You said: " + text}
}

func NewError(reason string) *OutboundEnvelope {
	return &OutboundEnvelope{Type: MsgTypeError, Payload: reason}
}

func NewUnknownType(typ string) *OutboundEnvelope {
	return NewError(fmt.Sprintf("Unknown message type: %s", typ))
}

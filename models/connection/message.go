package connection

import (
	"encoding/json"
	"fmt"
)

type NoPayload bool
type Message[T any] struct {
	Code    uint8    `json:"code"`
	Payload T        `json:"payload,omitempty"`
	Error   *RespErr `json:"error,omitempty"`
}

func NewMessage[T any](code uint8) Message[T] {
	return Message[T]{Code: code}
}

func (m *Message[T]) AddPayload(payload T) {
	m.Payload = payload
}

func (m *Message[T]) AddError(errorDetails, message string) {
	m.Error = NewRespErr(errorDetails, message)
}

// FetchCode reads only the code of an incoming frame.
func FetchCode(payload []byte) (uint8, error) {
	var signal Signal
	if err := json.Unmarshal(payload, &signal); err != nil {
		return 0, fmt.Errorf("incoming payload must contain 'code' field: %w", err)
	}
	return signal.Code, nil
}

// DecodeMessage unmarshals a whole frame into a Message[T].
func DecodeMessage[T any](payload []byte) (Message[T], error) {
	var msg Message[T]
	if err := json.Unmarshal(payload, &msg); err != nil {
		return msg, err
	}
	return msg, nil
}

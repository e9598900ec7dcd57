package game

import (
	"encoding/json"
	"fmt"
)

type Frame struct {
	Binary bool
	Data   []byte
}

type outboundEnvelope struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type inboundEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func EncodeServerMessage(msg ServerMessage) ([]byte, error) {
	return json.Marshal(outboundEnvelope{Type: msg.kind(), Data: msg.payload()})
}

// DecodeClientFrame turns one websocket frame into a client message. Binary
// frames always carry a single line.
func DecodeClientFrame(frame Frame) (ClientMessage, error) {
	if frame.Binary {
		line, err := DecodeLine(frame.Data)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
		}
		return LineInput{Line: line}, nil
	}

	var env inboundEnvelope
	if err := json.Unmarshal(frame.Data, &env); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}

	switch env.Type {
	case "NewMessage":
		var in ChatInput
		if err := decodeData(env.Data, &in); err != nil {
			return nil, err
		}
		return in, nil
	case "NewLine":
		var line Line
		if err := decodeData(env.Data, &line); err != nil {
			return nil, err
		}
		return LineInput{Line: line}, nil
	case "ClearCanvas":
		return ClearInput{}, nil
	case "KickPlayer":
		var in KickPlayer
		if err := decodeData(env.Data, &in); err != nil {
			return nil, err
		}
		if in.Username == "" {
			return nil, fmt.Errorf("%w: kick without username", ErrMalformedFrame)
		}
		return in, nil
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", ErrMalformedFrame, env.Type)
	}
}

func decodeData(data json.RawMessage, v any) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: missing data", ErrMalformedFrame)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedFrame, err)
	}
	return nil
}

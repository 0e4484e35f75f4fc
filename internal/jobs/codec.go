package jobs

import (
	"encoding/json"
	"fmt"
	"strings"
)

func EncodePayload(t JobType, payload any) ([]byte, error) {
	if !t.IsValid() {
		return nil, ErrInvalidJobType
	}

	if err := ValidatePayload(t, payload); err != nil {
		return nil, err
	}

	b, err := json.Marshal(payload)

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
	}

	return b, nil
}

// DecodePayload unmarshals job.Payload into the correct typed payload struct.
func DecodePayload(j Job) (any, error) {
	if !j.Type.IsValid() {
		return nil, ErrInvalidJobType
	}
	if len(j.Payload) == 0 {
		return nil, ErrInvalidJobPayload
	}

	switch j.Type {
	case JobDocumentStatusChanged:
		var p DocumentStatusChangedPayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		return p, nil

	case JobSendWelcome:
		var p SendWelcomePayload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}
		return p, nil

	default:
		return nil, ErrInvalidJobType
	}
}

// ValidatePayload performs minimal shape checks on typed payloads before they
// are queued.
func ValidatePayload(t JobType, payload any) error {
	if !t.IsValid() {
		return ErrInvalidJobType
	}

	trim := strings.TrimSpace

	switch t {
	case JobDocumentStatusChanged:
		var p DocumentStatusChangedPayload
		switch v := payload.(type) {
		case DocumentStatusChangedPayload:
			p = v
		case *DocumentStatusChangedPayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.DocumentID) == "" || trim(p.UserID) == "" || trim(p.Status) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	case JobSendWelcome:
		var p SendWelcomePayload
		switch v := payload.(type) {
		case SendWelcomePayload:
			p = v
		case *SendWelcomePayload:
			p = *v
		default:
			return ErrPayloadTypeMismatch
		}
		if trim(p.UserID) == "" || trim(p.Email) == "" {
			return ErrInvalidJobPayload
		}
		return nil

	default:
		return ErrInvalidJobType
	}
}

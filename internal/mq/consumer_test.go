package mq

import (
	"encoding/json"
	"testing"
)

func TestParsePayload_FromStruct(t *testing.T) {
	msg := &Message{
		Type: MessageTypeUserRegistered,
		Payload: UserRegisteredPayload{
			UserID: "u1",
			Email:  "ada@example.com",
		},
	}

	payload, err := ParsePayload[UserRegisteredPayload](msg)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if payload.UserID != "u1" || payload.Email != "ada@example.com" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestParsePayload_FromDecodedJSON(t *testing.T) {
	// После прохода через брокер payload приезжает как map.
	raw := `{"id":"m1","type":"step.completed","payload":{"user_id":"u1","step_name":"IQ Test","accepted":true,"overall_status":"IN_PROGRESS"}}`

	var msg Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatalf("unmarshal message: %v", err)
	}

	payload, err := ParsePayload[StepCompletedPayload](&msg)
	if err != nil {
		t.Fatalf("ParsePayload: %v", err)
	}
	if payload.UserID != "u1" || payload.StepName != "IQ Test" || !payload.Accepted {
		t.Errorf("payload = %+v", payload)
	}
}

func TestParsePayload_TypeMismatch(t *testing.T) {
	msg := &Message{
		Type:    MessageTypeReminderDue,
		Payload: map[string]any{"user_id": 42},
	}

	if _, err := ParsePayload[ReminderDuePayload](msg); err == nil {
		t.Error("expected error for mismatched payload")
	}
}

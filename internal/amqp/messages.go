package amqp

import (
	"encoding/json"
	"time"
)

// PlanSyncMessage tells the worker the plan changed. It carries only the
// revision; the worker reads the full document from the store, so a
// burst of edits collapses into one mirror write.
type PlanSyncMessage struct {
	Revision  int64     `json:"revision"`
	Timestamp time.Time `json:"timestamp"`
}

func NewPlanSyncMessage(revision int64) *PlanSyncMessage {
	return &PlanSyncMessage{
		Revision:  revision,
		Timestamp: time.Now(),
	}
}

func (m *PlanSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func PlanSyncMessageFromJSON(data []byte) (*PlanSyncMessage, error) {
	var msg PlanSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

package core

import (
	"encoding/json"
	"fmt"
)

const (
	IntentNext          = "next"
	IntentBack          = "back"
	IntentReset         = "reset"
	IntentRetry         = "retry"
	IntentClose         = "close"
	IntentBeginAnalysis = "begin_analysis"
	IntentSetAge        = "set_age"
	IntentAdjustAge     = "adjust_age"
	IntentSetSkinType   = "set_skin_type"
)

type intentData struct {
	Age      int    `json:"age"`
	Delta    int    `json:"delta"`
	SkinType string `json:"skin_type"`
	Force    bool   `json:"force"`
}

// HandleIntent applies an intent received over a websocket.
func (c *Core) HandleIntent(workflowID, intent string, data json.RawMessage) error {
	var args intentData
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &args); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
	}

	var err error
	switch intent {
	case IntentNext:
		_, err = c.Next(workflowID, args.Force)
	case IntentBack:
		_, err = c.Back(workflowID)
	case IntentReset:
		_, err = c.Reset(workflowID)
	case IntentRetry:
		_, err = c.Retry(workflowID)
	case IntentClose:
		err = c.Close(workflowID)
	case IntentBeginAnalysis:
		_, err = c.BeginAnalysis(workflowID)
	case IntentSetAge:
		_, err = c.SetAge(workflowID, args.Age)
	case IntentAdjustAge:
		_, err = c.AdjustAge(workflowID, args.Delta)
	case IntentSetSkinType:
		_, err = c.SetSkinType(workflowID, args.SkinType)
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownIntent, intent)
	}
	return err
}

package sheet

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Envelope is the JSON body the script returns. The submitter never reads
// it; it exists for tools that call the endpoint directly.
type Envelope struct {
	Success  bool              `json:"success"`
	Message  string            `json:"message,omitempty"`
	Error    string            `json:"error,omitempty"`
	RowCount int               `json:"rowCount,omitempty"`
	Params   map[string]string `json:"params,omitempty"`
}

// DecodeEnvelope reads an envelope leniently: unknown fields are ignored and
// a body without a boolean success field is rejected.
func DecodeEnvelope(body []byte) (Envelope, error) {
	if !gjson.ValidBytes(body) {
		return Envelope{}, fmt.Errorf("invalid JSON in response body")
	}

	success := gjson.GetBytes(body, "success")
	if success.Type != gjson.True && success.Type != gjson.False {
		return Envelope{}, fmt.Errorf("response has no boolean success field")
	}

	env := Envelope{
		Success:  success.Bool(),
		Message:  gjson.GetBytes(body, "message").String(),
		Error:    gjson.GetBytes(body, "error").String(),
		RowCount: int(gjson.GetBytes(body, "rowCount").Int()),
	}

	if params := gjson.GetBytes(body, "params"); params.IsObject() {
		env.Params = make(map[string]string)
		params.ForEach(func(key, value gjson.Result) bool {
			env.Params[key.String()] = value.String()
			return true
		})
	}
	return env, nil
}

package activity

import "encoding/json"

func decodeJSON(raw []byte, out interface{}) error {
	return json.Unmarshal(raw, out)
}

package controllers

import (
	"bytes"
	"encoding/json"
)

func bindJSONBytes(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	return dec.Decode(v)
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// envelope mirrors the API's uniform response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
}

// apiRequest performs an authenticated request and decodes the envelope.
func apiRequest(method, path string, payload interface{}) (*envelope, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, apiURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+authToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, string(raw))
	}
	if !env.Success {
		return &env, fmt.Errorf("%s (status %d)", env.Message, env.StatusCode)
	}
	return &env, nil
}

// printResult writes the envelope data, honoring the --output flag.
func printResult(env *envelope) error {
	if output == "json" {
		fmt.Println(string(env.Data))
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, env.Data, "", "  "); err != nil {
		fmt.Println(string(env.Data))
		return nil
	}
	fmt.Println(env.Message)
	fmt.Println(pretty.String())
	return nil
}

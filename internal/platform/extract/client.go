package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

type extractRequest struct {
	Transcript  string `json:"transcript,omitempty"`
	AudioRef    string `json:"audio_ref,omitempty"`
	PatientHint string `json:"patient_hint,omitempty"`
}

type extractResponse struct {
	Status int             `json:"status"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
}

// HTTPExtractor calls a remote extraction service over HTTP.
type HTTPExtractor struct {
	httpClient *resty.Client
	logger     zerolog.Logger
}

func NewHTTPExtractor(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPExtractor {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &HTTPExtractor{
		httpClient: client,
		logger:     logger,
	}
}

func (e *HTTPExtractor) Extract(ctx context.Context, in Input) (*Result, error) {
	if in.Transcript == "" && in.AudioRef == "" {
		return nil, fmt.Errorf("extraction input is empty")
	}

	req := extractRequest{
		Transcript:  in.Transcript,
		AudioRef:    in.AudioRef,
		PatientHint: in.PatientHint,
	}

	var envelope extractResponse
	resp, err := e.httpClient.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&envelope).
		Post("/v1/extract")

	if err != nil {
		e.logger.Error().Err(err).Msg("extraction call failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.IsError() {
		e.logger.Error().
			Int("status_code", resp.StatusCode()).
			Msg("extraction service returned error status")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode())
	}
	if envelope.Status != 0 {
		e.logger.Error().
			Int("status", envelope.Status).
			Str("msg", envelope.Msg).
			Msg("extraction service rejected input")
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, envelope.Msg)
	}

	var result Result
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		return nil, fmt.Errorf("%w: malformed response: %v", ErrUnavailable, err)
	}

	e.logger.Debug().
		Int("medication_count", len(result.Medications)).
		Msg("extraction completed")

	return &result, nil
}

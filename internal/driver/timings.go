package driver

import (
	"encoding/json"
	"fmt"

	"hereafter/internal/diag"
	"hereafter/internal/observ"
	"hereafter/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an OBS8001 info entry whose note carries the
// JSON payload. A full bag is grown so timings are never dropped.
func appendTimingDiagnostic(bag *diag.Bag, file source.FileID, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	span := source.Span{File: file}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, span, msg).WithNote(span, string(data))
	bag.Force(entry)
}

package tst

import (
	"time"

	"github.com/tstmcp/terminal-mcp/internal/detect"
	"github.com/tstmcp/terminal-mcp/internal/geometry"
)

// Assemble converts pipeline output into the outward tree. Elements pass
// through in detection order; bounds and confidence are discarded at this
// layer except for the optional minConfidence filter.
func Assemble(sessionID string, dims geometry.Dimensions, cursor geometry.Position, rawText string, detected []detect.DetectedElement) TerminalStateTree {
	return AssembleWithConfidence(sessionID, dims, cursor, rawText, detected, detect.Low)
}

// AssembleWithConfidence is Assemble with an explicit minimum confidence;
// detections below minConfidence are dropped before assembly.
func AssembleWithConfidence(sessionID string, dims geometry.Dimensions, cursor geometry.Position, rawText string, detected []detect.DetectedElement, minConfidence detect.Confidence) TerminalStateTree {
	elements := make([]Element, 0, len(detected))
	for _, d := range detected {
		if d.Confidence < minConfidence {
			continue
		}
		elements = append(elements, d.Element)
	}
	return TerminalStateTree{
		SessionID:  sessionID,
		Dimensions: dims,
		Cursor:     cursor,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Elements:   elements,
		RawText:    rawText,
	}
}

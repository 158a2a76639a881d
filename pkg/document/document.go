// Package document defines the core model shared by the extraction,
// overlay, and question-answering components: detected text lines with
// normalized bounding boxes, and the flattened text they produce.
package document

import "strings"

// Box is a bounding box expressed as fractions of the image dimensions,
// origin top-left. Values come from the detection service and are
// trusted as-is; nothing here enforces the [0,1] range.
type Box struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Line is one detected line of text with its normalized bounding box.
type Line struct {
	Text string `json:"text"`
	Box  Box    `json:"box"`
}

// Text is the ordered set of detected lines for one document, in the
// order the detection service returned them.
type Text struct {
	Lines []Line `json:"lines"`
}

// Flatten joins the line texts with a single newline, no trailing
// separator. Flatten of zero lines is the empty string.
func (t Text) Flatten() string {
	if len(t.Lines) == 0 {
		return ""
	}

	parts := make([]string, len(t.Lines))
	for i, line := range t.Lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n")
}

// IsEmpty reports whether no lines were detected.
func (t Text) IsEmpty() bool {
	return len(t.Lines) == 0
}

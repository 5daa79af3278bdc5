package report

import (
	"fmt"
	"regexp"
)

const (
	maxBlocks        = 50
	minFields        = 1
	maxFields        = 10
	maxFieldChars    = 2000
	maxSectionChars  = 3000
	maxHeaderChars   = 150
	maxAltTextChars  = 2000
	maxImageURLChars = 3000
)

var imageURLPattern = regexp.MustCompile(`^https?://`)

// Validate returns every hard violation found in blocks, in block
// order. A non-empty result means the transport must refuse to send.
// Use Warnings for the non-rejecting field-parity preference.
func Validate(blocks []Block) []string {
	var violations []string

	if len(blocks) > maxBlocks {
		violations = append(violations, fmt.Sprintf("message has %d blocks, exceeding the limit of %d", len(blocks), maxBlocks))
	}

	for i, b := range blocks {
		violations = append(violations, validateBlock(i, b)...)
	}
	return violations
}

// Warnings returns non-rejecting advisories, currently just the
// two-column field-parity preference.
func Warnings(blocks []Block) []string {
	var warnings []string
	for i, b := range blocks {
		if b.Type == "section" && len(b.Fields) > 0 && len(b.Fields)%2 != 0 {
			warnings = append(warnings, fmt.Sprintf("block[%d] (section): odd field count %d; an even count is preferred for two-column layout", i, len(b.Fields)))
		}
	}
	return warnings
}

func validateBlock(index int, b Block) []string {
	var violations []string
	prefix := fmt.Sprintf("block[%d] (%s)", index, b.Type)

	switch b.Type {
	case "header":
		if b.Text != nil && len(b.Text.Text) > maxHeaderChars {
			violations = append(violations, fmt.Sprintf("%s: header.text exceeds %d characters", prefix, maxHeaderChars))
		}
	case "section":
		if len(b.Fields) > 0 {
			if len(b.Fields) < minFields || len(b.Fields) > maxFields {
				violations = append(violations, fmt.Sprintf("%s: section.fields must have between %d and %d items, has %d", prefix, minFields, maxFields, len(b.Fields)))
			}
			for fi, f := range b.Fields {
				if len(f.Text) > maxFieldChars {
					violations = append(violations, fmt.Sprintf("%s: fields[%d] exceeds %d characters", prefix, fi, maxFieldChars))
				}
			}
		}
		if b.Text != nil && len(b.Text.Text) > maxSectionChars {
			violations = append(violations, fmt.Sprintf("%s: section.text exceeds %d characters", prefix, maxSectionChars))
		}
	case "image":
		hasURL := b.ImageURL != ""
		hasFile := b.SlackFile != nil
		if hasURL == hasFile {
			violations = append(violations, fmt.Sprintf("%s: image block must carry exactly one of image_url or slack_file", prefix))
		}
		if hasURL {
			if len(b.ImageURL) > maxImageURLChars {
				violations = append(violations, fmt.Sprintf("%s: image_url exceeds %d characters", prefix, maxImageURLChars))
			}
			if !imageURLPattern.MatchString(b.ImageURL) {
				violations = append(violations, fmt.Sprintf("%s: image_url must match https?://", prefix))
			}
		}
		if len(b.AltText) > maxAltTextChars {
			violations = append(violations, fmt.Sprintf("%s: alt_text exceeds %d characters", prefix, maxAltTextChars))
		}
	}
	return violations
}

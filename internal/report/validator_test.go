package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedBlocks(t *testing.T) {
	blocks := []Block{
		Header("Daily summary"),
		Fields("a", "b"),
		Divider(),
		Section("body"),
	}
	assert.Empty(t, Validate(blocks))
}

func TestValidateRejectsTooManyBlocks(t *testing.T) {
	blocks := make([]Block, maxBlocks+1)
	for i := range blocks {
		blocks[i] = Divider()
	}
	violations := Validate(blocks)
	assert.NotEmpty(t, violations)
	assert.Contains(t, violations[0], "exceeding the limit")
}

func TestValidateRejectsFieldsOutOfRange(t *testing.T) {
	tooMany := make([]string, maxFields+1)
	for i := range tooMany {
		tooMany[i] = "x"
	}
	violations := Validate([]Block{Fields(tooMany...)})
	assert.NotEmpty(t, violations)
}

func TestValidateRejectsOverlongHeader(t *testing.T) {
	violations := Validate([]Block{Header(strings.Repeat("x", maxHeaderChars+1))})
	assert.NotEmpty(t, violations)
}

func TestValidateImageRequiresExactlyOneSource(t *testing.T) {
	neither := Block{Type: "image", AltText: "alt"}
	assert.NotEmpty(t, Validate([]Block{neither}))

	both := Block{Type: "image", ImageURL: "https://example.com/a.png", SlackFile: &File{ID: "F1"}, AltText: "alt"}
	assert.NotEmpty(t, Validate([]Block{both}))

	url := ImageURL("https://example.com/a.png", "alt")
	assert.Empty(t, Validate([]Block{url}))
}

func TestValidateImageURLMustMatchScheme(t *testing.T) {
	bad := Block{Type: "image", ImageURL: "ftp://example.com/a.png", AltText: "alt"}
	assert.NotEmpty(t, Validate([]Block{bad}))
}

func TestWarningsFlagOddFieldCountWithoutRejecting(t *testing.T) {
	blocks := []Block{Fields("a", "b", "c")}
	assert.Empty(t, Validate(blocks))
	assert.NotEmpty(t, Warnings(blocks))
}

package notify

import (
	"context"
	"errors"
	"testing"

	awerrors "github.com/posaune0423/aw-analyzer/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNotifyDispatchesLinuxCommand(t *testing.T) {
	var gotName string
	var gotArgs []string
	n := &OSNotifier{goos: "linux", run: func(ctx context.Context, name string, args ...string) error {
		gotName = name
		gotArgs = args
		return nil
	}}

	err := n.Notify(context.Background(), "Title", "Body")
	assert.NoError(t, err)
	assert.Equal(t, "notify-send", gotName)
	assert.Equal(t, []string{"Title", "Body"}, gotArgs)
}

func TestNotifyWrapsCommandFailure(t *testing.T) {
	n := &OSNotifier{goos: "linux", run: func(ctx context.Context, name string, args ...string) error {
		return errors.New("binary not found")
	}}

	err := n.Notify(context.Background(), "Title", "Body")
	kind, ok := awerrors.Of(err)
	assert.True(t, ok)
	assert.Equal(t, awerrors.KindNotifier, kind)
}

func TestNotifyUnsupportedPlatform(t *testing.T) {
	n := &OSNotifier{goos: "plan9", run: runCommand}
	err := n.Notify(context.Background(), "Title", "Body")
	kind, ok := awerrors.Of(err)
	assert.True(t, ok)
	assert.Equal(t, awerrors.KindNotifier, kind)
}

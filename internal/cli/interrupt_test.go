package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// syncBuffer provides thread-safe access to a bytes.Buffer.
type syncBuffer struct {
	buf bytes.Buffer
	mu  sync.Mutex
}

func (s *syncBuffer) Write(p []byte) (n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func waitDone(t *testing.T, ctx context.Context) {
	t.Helper()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled")
	}
}

func TestHandleInterrupts(t *testing.T) {
	tests := []struct {
		name        string
		partialPath string
		expected    []string
		notExpected []string
	}{
		{
			name:        "with partial output",
			partialPath: "/tmp/out.ics",
			expected:    []string{"Export interrupted!", "Removing partial output /tmp/out.ics"},
		},
		{
			name:        "without partial output",
			expected:    []string{"Export interrupted!"},
			notExpected: []string{"Removing partial output"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := &syncBuffer{}
			handler := NewInterruptHandler(output)

			ctx := handler.HandleInterrupts(context.Background(), "Export", tt.partialPath)
			assert.False(t, handler.WasInterrupted())

			handler.signals <- os.Interrupt
			waitDone(t, ctx)

			require.Eventually(t, handler.WasInterrupted, time.Second, 10*time.Millisecond)
			for _, want := range tt.expected {
				assert.Contains(t, output.String(), want)
			}
			for _, unwanted := range tt.notExpected {
				assert.NotContains(t, output.String(), unwanted)
			}
		})
	}
}

func TestHandleInterrupts_ParentCanceled(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	parent, cancel := context.WithCancel(context.Background())
	ctx := handler.HandleInterrupts(parent, "Fetch", "")
	cancel()
	waitDone(t, ctx)

	assert.False(t, handler.WasInterrupted())
	assert.Empty(t, output.String())
}

func TestHandleInterrupts_MessageOnce(t *testing.T) {
	output := &syncBuffer{}
	handler := NewInterruptHandler(output)

	ctx := handler.HandleInterrupts(context.Background(), "Fetch", "")
	handler.signals <- os.Interrupt
	waitDone(t, ctx)

	// the watcher has exited, so a second signal is not reported
	select {
	case handler.signals <- os.Interrupt:
	default:
	}
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, strings.Count(output.String(), "Fetch interrupted!"))
}

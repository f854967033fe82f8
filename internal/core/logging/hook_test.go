package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestContextHook_Run(t *testing.T) {
	tests := []struct {
		name      string
		setupCtx  func() context.Context
		wantKeys  []string
		wantEmpty []string
	}{
		{
			name: "guid and file",
			setupCtx: func() context.Context {
				ctx := WithFile(context.Background(), "todo_list.yaml")
				return WithGUID(ctx, "a1")
			},
			wantKeys: []string{"guid", "file"},
		},
		{
			name: "only guid",
			setupCtx: func() context.Context {
				return WithGUID(context.Background(), "a1")
			},
			wantKeys:  []string{"guid"},
			wantEmpty: []string{"file"},
		},
		{
			name: "only file",
			setupCtx: func() context.Context {
				return WithFile(context.Background(), "todo_list.yaml")
			},
			wantKeys:  []string{"file"},
			wantEmpty: []string{"guid"},
		},
		{
			name:      "no context values",
			setupCtx:  context.Background,
			wantEmpty: []string{"guid", "file"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			logger := zerolog.New(&buf).Hook(ContextHook{})
			logger.Info().Ctx(tt.setupCtx()).Msg("test")

			var logEntry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
				t.Fatalf("failed to parse log: %v", err)
			}

			for _, key := range tt.wantKeys {
				if _, ok := logEntry[key]; !ok {
					t.Errorf("expected %s to be present in log", key)
				}
			}

			for _, key := range tt.wantEmpty {
				if _, ok := logEntry[key]; ok {
					t.Errorf("expected %s to be absent from log", key)
				}
			}
		})
	}
}

package logging

import (
	"context"
	"maps"
	"testing"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	r.fields = append(r.fields, maps.Clone(fields))
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "folio.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerAnnotatesModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	ModuleLogger(provider, SiteModule).Info("with provider")

	if len(provider.requested) != 1 || provider.requested[0] != SiteModule {
		t.Fatalf("expected module %s, got %v", SiteModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != SiteModule {
		t.Fatalf("expected module field, got %v", rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	provider := &stubProvider{logger: &recordingLogger{}}
	_ = ModuleLogger(provider, "")
	if provider.requested[0] != RootModule {
		t.Fatalf("expected default module %s, got %v", RootModule, provider.requested)
	}
}

func TestNamedModuleLoggers(t *testing.T) {
	tests := map[string]func(interfaces.LoggerProvider) interfaces.Logger{
		PostsModule:    PostsLogger,
		ResumeModule:   ResumeLogger,
		SiteModule:     SiteLogger,
		CommandsModule: CommandsLogger,
	}
	for module, build := range tests {
		provider := &stubProvider{logger: &recordingLogger{}}
		build(provider)
		if len(provider.requested) != 1 || provider.requested[0] != module {
			t.Fatalf("expected %s, got %v", module, provider.requested)
		}
	}
}

func TestWithPostContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}
	WithPostContext(rec, " _posts/a.md ", "", "parse")
	if len(rec.fields) != 1 {
		t.Fatalf("expected one WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldPostSource] != "_posts/a.md" || got[fieldPostAction] != "parse" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldPostID]; ok {
		t.Fatalf("empty id should be skipped: %v", got)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"a": 1, "b": 1})
	ctx = ContextWithFields(ctx, map[string]any{"b": 2})
	fields := ContextFields(ctx)
	if fields["a"] != 1 || fields["b"] != 2 {
		t.Fatalf("unexpected merged fields %v", fields)
	}
	fields["a"] = 99
	if ContextFields(ctx)["a"] != 1 {
		t.Fatalf("ContextFields must return a copy")
	}
}

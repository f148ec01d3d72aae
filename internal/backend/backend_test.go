package backend

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	"fintrack/internal/log"
)

func quietFactory() *DefaultFactory {
	return NewFactory(log.New(log.Config{Output: &bytes.Buffer{}})).(*DefaultFactory)
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	cfg, err := FromAppConfig(&config.Config{DataBackend: "mongo", MongoURI: "mongodb://x", MongoDB: "db", AMQPURL: "amqp://y"})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != MongoBackend || cfg.MongoDB != "db" || cfg.AMQPURL != "amqp://y" {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"mongo without uri", Config{Type: MongoBackend, MongoDB: "db"}, true},
		{"mongo without db", Config{Type: MongoBackend, MongoURI: "mongodb://x"}, true},
		{"unknown", Config{Type: "sheets"}, true},
		{"amqp required but missing", Config{Type: MemoryBackend, RequireAMQP: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if res.Events != nil {
		t.Fatal("no AMQP configured, Events must be nil")
	}
	if err := res.Repository.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fintrack.db")
	res, err := quietFactory().CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Cleanup()
	if err := res.Repository.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestUnreachableBroker(t *testing.T) {
	f := quietFactory()
	f.dialer = func(string, string, string) (*amqp.Client, error) { return nil, errors.New("connection refused") }

	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, AMQPURL: "amqp://nowhere"})
	if err != nil {
		t.Fatalf("optional broker must not fail: %v", err)
	}
	if res.Events != nil {
		t.Fatal("expected no events client")
	}

	_, err = f.CreateBackend(context.Background(), Config{Type: MemoryBackend, AMQPURL: "amqp://nowhere", RequireAMQP: true})
	if err == nil {
		t.Fatal("required broker must fail")
	}
}

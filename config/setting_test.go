package config

import (
	"strings"
	"testing"
)

func TestBuildMySQLDSN(t *testing.T) {
	dsn := buildMySQLDSN(databaseConfig{
		Host:     "db.internal",
		Port:     3307,
		User:     "app",
		Password: "secret",
		Name:     "docindex",
	})
	want := "app:secret@tcp(db.internal:3307)/docindex?charset=utf8mb4&parseTime=True&loc=Local"
	if dsn != want {
		t.Fatalf("dsn = %q, want %q", dsn, want)
	}
}

func TestBuildReplicaDSN(t *testing.T) {
	orig := Cfg.Database
	defer func() { Cfg.Database = orig }()

	Cfg.Database.ReplicaHost = ""
	if got := BuildReplicaDSN(); got != "" {
		t.Fatalf("expected empty replica DSN, got %q", got)
	}

	Cfg.Database = databaseConfig{
		Host: "primary", ReplicaHost: "replica", Port: 3306,
		User: "app", Name: "docindex",
	}
	got := BuildReplicaDSN()
	if !strings.Contains(got, "replica:3306") {
		t.Fatalf("replica DSN should target replica host, got %q", got)
	}
	if strings.Contains(got, "primary") {
		t.Fatalf("replica DSN should not target primary, got %q", got)
	}
}

func TestEnvKeyMapper(t *testing.T) {
	cases := map[string]string{
		"APP_SERVER_PORT":         "server.port",
		"APP_AZURE_ENDPOINT":      "azure.endpoint",
		"APP_AZURE_API_VERSION":   "azure.api_version",
		"APP_INGEST_CHUNK_TOKENS": "ingest.chunk_tokens",
		"APP_LOG_LEVEL":           "log_level",
	}
	for in, want := range cases {
		if got := envKeyMapper(in); got != want {
			t.Errorf("envKeyMapper(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestApplyProviderEnv(t *testing.T) {
	orig := Cfg.Azure
	origParse := Cfg.Parse
	defer func() {
		Cfg.Azure = orig
		Cfg.Parse = origParse
	}()

	t.Setenv("AZURE_OPENAI_KEY", "env-key")
	t.Setenv("AZURE_OPENAI_ENDPOINT", "https://res.openai.azure.com")
	t.Setenv("AZURE_OPENAI_DEPLOYMENT", "gpt-4o-prod")
	t.Setenv("AZURE_OPENAI_API_VERSION", "2024-06-01")
	t.Setenv("LLAMA_CLOUD_API_KEY", "llx-test")

	Cfg.Azure.Key = ""
	Cfg.Azure.Endpoint = ""
	Cfg.Azure.Deployment = ""
	Cfg.Parse.Key = ""
	applyProviderEnv()

	if Cfg.Azure.Key != "env-key" {
		t.Fatalf("key = %q", Cfg.Azure.Key)
	}
	if Cfg.Azure.Endpoint != "https://res.openai.azure.com" {
		t.Fatalf("endpoint = %q", Cfg.Azure.Endpoint)
	}
	if Cfg.Azure.Deployment != "gpt-4o-prod" {
		t.Fatalf("deployment = %q", Cfg.Azure.Deployment)
	}
	if Cfg.Azure.APIVersion != "2024-06-01" {
		t.Fatalf("api version = %q", Cfg.Azure.APIVersion)
	}
	if Cfg.Parse.Key != "llx-test" {
		t.Fatalf("parse key = %q", Cfg.Parse.Key)
	}

	// Values already set in config win over the environment.
	Cfg.Azure.Key = "file-key"
	applyProviderEnv()
	if Cfg.Azure.Key != "file-key" {
		t.Fatalf("config key should win, got %q", Cfg.Azure.Key)
	}
}

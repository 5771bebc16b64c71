package config

import "testing"

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate, got %v", err)
	}
}

func TestFromYAMLAppliesDefaults(t *testing.T) {
	cfg, err := FromYAML([]byte(`server:
  max_sessions: 5
`))
	if err != nil {
		t.Fatalf("FromYAML error: %v", err)
	}
	if cfg.Server.MaxSessions != 5 {
		t.Errorf("MaxSessions = %d, want 5", cfg.Server.MaxSessions)
	}
	if cfg.Terminal.DefaultRows != 24 || cfg.Terminal.DefaultCols != 80 {
		t.Errorf("terminal defaults not applied: %+v", cfg.Terminal)
	}
	if cfg.Server.Transport != "stdio" {
		t.Errorf("Transport = %q, want stdio", cfg.Server.Transport)
	}
}

func TestValidateRejectsZeroMaxSessions(t *testing.T) {
	cfg := Default()
	cfg.Server.MaxSessions = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero max_sessions")
	}
}

func TestValidateRejectsZeroDimensions(t *testing.T) {
	cfg := Default()
	cfg.Terminal.DefaultRows = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero terminal dimensions")
	}
}

func TestIsCommandAllowed(t *testing.T) {
	open := SecuritySettings{}
	if !open.IsCommandAllowed("anything") {
		t.Error("empty allow-list should allow every command")
	}

	restricted := SecuritySettings{AllowedCommands: []string{"bash", "vim"}}
	if !restricted.IsCommandAllowed("vim") {
		t.Error("vim should be allowed")
	}
	if restricted.IsCommandAllowed("rm") {
		t.Error("rm should not be allowed")
	}
}

func TestCustomPatternConfigValidate(t *testing.T) {
	valid := CustomPatternConfig{Name: "status", Pattern: `^\d+%$`, ElementType: "text"}
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid pattern to pass, got %v", err)
	}

	badRegex := CustomPatternConfig{Name: "bad", Pattern: "(unclosed", ElementType: "text"}
	if err := badRegex.Validate(); err == nil {
		t.Error("expected error for invalid regex")
	}

	noName := CustomPatternConfig{Pattern: "x", ElementType: "text"}
	if err := noName.Validate(); err == nil {
		t.Error("expected error for empty name")
	}

	noType := CustomPatternConfig{Name: "x", Pattern: "x"}
	if err := noType.Validate(); err == nil {
		t.Error("expected error for empty element_type")
	}
}

func TestValidatePropagatesCustomPatternErrors(t *testing.T) {
	cfg := Default()
	cfg.Detection.CustomPatterns = []CustomPatternConfig{{Pattern: "x", ElementType: "text"}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to surface the custom pattern's error")
	}
}

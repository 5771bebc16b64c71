package config

import "testing"

func TestHydrateProfile(t *testing.T) {
	m := map[string][]string{
		"security.allowed_commands": {"bash", "vim"},
		"terminal.default_rows":     {"40"},
		"terminal.default_cols":     {"120"},
	}
	p := hydrateProfile(m)
	if len(p.AllowedCommands) != 2 || p.AllowedCommands[0] != "bash" {
		t.Errorf("AllowedCommands = %+v", p.AllowedCommands)
	}
	if p.DefaultRows != 40 || p.DefaultCols != 120 {
		t.Errorf("dims = %d x %d, want 40 x 120", p.DefaultRows, p.DefaultCols)
	}
}

func TestHydrateProfileEmpty(t *testing.T) {
	p := hydrateProfile(map[string][]string{})
	if len(p.AllowedCommands) != 0 || p.DefaultRows != 0 || p.DefaultCols != 0 {
		t.Errorf("expected zero Profile, got %+v", p)
	}
}

func TestProfileApplyNarrowsOnlySetFields(t *testing.T) {
	base := Default()
	base.Security.AllowedCommands = []string{"bash"}

	p := Profile{DefaultRows: 50}
	out := p.Apply(base)

	if len(out.Security.AllowedCommands) != 1 || out.Security.AllowedCommands[0] != "bash" {
		t.Errorf("AllowedCommands should be unchanged, got %+v", out.Security.AllowedCommands)
	}
	if out.Terminal.DefaultRows != 50 {
		t.Errorf("DefaultRows = %d, want 50", out.Terminal.DefaultRows)
	}
	if out.Terminal.DefaultCols != base.Terminal.DefaultCols {
		t.Errorf("DefaultCols should be unchanged")
	}
}

func TestProfileApplyOverridesAllowedCommands(t *testing.T) {
	base := Default()
	p := Profile{AllowedCommands: []string{"vim"}}
	out := p.Apply(base)
	if len(out.Security.AllowedCommands) != 1 || out.Security.AllowedCommands[0] != "vim" {
		t.Errorf("AllowedCommands = %+v, want [vim]", out.Security.AllowedCommands)
	}
}

func TestLoadProfileMissingFileIsNotAnError(t *testing.T) {
	p, err := loadProfile("does-not-exist-anywhere.tstmcp")
	if err != nil {
		t.Fatalf("missing profile file should not error, got %v", err)
	}
	if len(p.AllowedCommands) != 0 {
		t.Errorf("expected zero Profile, got %+v", p)
	}
}

func TestMatchGlobPath(t *testing.T) {
	cases := []struct {
		pattern, name string
		want          bool
	}{
		{"/home/*/project", "/home/alice/project", true},
		{"/home/*/project", "/home/alice/bob/project", false},
		{"**/project", "/home/alice/bob/project", true},
		{"/home/**", "/home/alice/bob/project", true},
		{"/etc/*", "/home/alice", false},
	}
	for _, c := range cases {
		if got := matchGlobPath(c.pattern, c.name); got != c.want {
			t.Errorf("matchGlobPath(%q, %q) = %v, want %v", c.pattern, c.name, got, c.want)
		}
	}
}

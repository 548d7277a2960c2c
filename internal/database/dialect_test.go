package database

import "testing"

func TestRewritePlaceholdersToNumbered(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "no placeholders",
			query: "SELECT doc FROM profiles",
			want:  "SELECT doc FROM profiles",
		},
		{
			name:  "single placeholder",
			query: "SELECT doc FROM profiles WHERE user_id = ?",
			want:  "SELECT doc FROM profiles WHERE user_id = $1",
		},
		{
			name:  "multiple placeholders numbered in order",
			query: "UPDATE profiles SET doc = ?, version = ? WHERE namespace = ? AND user_id = ? AND slot = ?",
			want:  "UPDATE profiles SET doc = $1, version = $2 WHERE namespace = $3 AND user_id = $4 AND slot = $5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rewritePlaceholdersToNumbered(tt.query); got != tt.want {
				t.Errorf("rewritePlaceholdersToNumbered() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDialectRewrites(t *testing.T) {
	query := "SELECT id FROM users WHERE email = ?"

	if got := NewSQLiteDialect().RewriteQuery(query); got != query {
		t.Errorf("sqlite rewrite changed query: %q", got)
	}
	if got := NewMySQLDialect().RewriteQuery(query); got != query {
		t.Errorf("mysql rewrite changed query: %q", got)
	}
	if got := NewPostgresDialect().RewriteQuery(query); got != "SELECT id FROM users WHERE email = $1" {
		t.Errorf("postgres rewrite = %q", got)
	}
}

func TestDialectDSN(t *testing.T) {
	if got := NewSQLiteDialect().DSN(DialectConfig{Path: "./game.db"}); got != "./game.db?_busy_timeout=5000" {
		t.Errorf("sqlite DSN = %q", got)
	}
	if got := NewPostgresDialect().DSN(DialectConfig{URL: "postgres://u:p@h/db"}); got != "postgres://u:p@h/db" {
		t.Errorf("postgres DSN = %q", got)
	}
}

func TestInitializeWithTypeUnsupported(t *testing.T) {
	if _, err := InitializeWithType("oracle", "", ""); err == nil {
		t.Error("InitializeWithType(oracle) should fail")
	}
}

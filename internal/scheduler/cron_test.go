package scheduler

import (
	"testing"
	"time"
)

func TestValidateCronExpr(t *testing.T) {
	tests := []struct {
		expr    string
		wantErr bool
	}{
		{"* * * * *", false},
		{"0 3 * * *", false},
		{"@daily", false},
		{"@every 1h", false},
		{"", true},
		{"not a cron", true},
		{"99 * * * *", true},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			err := ValidateCronExpr(tt.expr)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCronExpr(%q) error = %v, wantErr %v", tt.expr, err, tt.wantErr)
			}
		})
	}
}

func TestNextRun(t *testing.T) {
	from := time.Date(2025, 6, 1, 0, 30, 0, 0, time.UTC)

	next, err := NextRun("0 3 * * *", from)
	if err != nil {
		t.Fatalf("NextRun: %v", err)
	}

	want := time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("NextRun = %v, want %v", next, want)
	}
}

func TestNewAppliesDefaults(t *testing.T) {
	s := New(Config{})

	if s.staleAfter != 30*time.Minute {
		t.Errorf("staleAfter = %v", s.staleAfter)
	}
	if s.sweepMaxAge != 7*24*time.Hour {
		t.Errorf("sweepMaxAge = %v", s.sweepMaxAge)
	}
	if s.expireCron == "" || s.sweepCron == "" {
		t.Error("default cron expressions not set")
	}

	if err := ValidateCronExpr(s.expireCron); err != nil {
		t.Errorf("default expire cron invalid: %v", err)
	}
	if err := ValidateCronExpr(s.sweepCron); err != nil {
		t.Errorf("default sweep cron invalid: %v", err)
	}
}

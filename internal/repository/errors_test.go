package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKey(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '40' for key 'uq_events_scene'"}

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"duplicate entry errno 1062", dup, true},
		{"wrapped duplicate entry", fmt.Errorf("insert event: %w", dup), true},
		{"other mysql error", &mysql.MySQLError{Number: 1452, Message: "foreign key constraint fails"}, false},
		{"plain error", errors.New("connection reset"), false},
		{"nil error", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := isDuplicateKey(tc.err); got != tc.want {
				t.Fatalf("isDuplicateKey(%v) = %t, want %t", tc.err, got, tc.want)
			}
		})
	}
}

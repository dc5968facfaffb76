// Package repository contains the data access layer.  Sentinel errors
// defined here are shared across repositories so handlers can translate
// failure kinds into HTTP statuses without inspecting driver errors.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrUniqueness is returned when a write would attach a scene, material or
// document that is already scheduled by another event.  Handlers translate
// this into an HTTP 409; it is never retried or auto-resolved; the caller
// must pick a different attachment.
var ErrUniqueness = errors.New("uniqueness conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry error
// (errno 1062), which is how the UNIQUE indexes on event links surface.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

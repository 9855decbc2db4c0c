package handlers

import (
	"gaugeworks/internal/storage"
	"gaugeworks/pkg/logging"
)

var (
	logger logging.Logger
	calc   *storage.Calculator
	quota  *storage.QuotaService
	docs   storage.DocumentStore
)

// Init initializes the handlers with their collaborators. documents is nil
// when the configured object store cannot presign (local driver); the
// document endpoints then report 501.
func Init(log logging.Logger, calculator *storage.Calculator, quotas *storage.QuotaService, documents storage.DocumentStore) {
	logger = log
	calc = calculator
	quota = quotas
	docs = documents
}

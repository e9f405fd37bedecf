// internal/stages/ingest/read-source/models.go
package readsource

import (
	"interview-reports/internal/common/logger"
	"interview-reports/internal/models"
)

// Source is one uploaded document.
type Source struct {
	Name    string
	Content []byte
}

type Input struct {
	Sources []Source
}

// Output holds one table per source, in upload order.
type Output struct {
	Tables []models.Table
}

type ServiceDependencies struct {
	Logger logger.Logger
}

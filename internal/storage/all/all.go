// Package all registers every storage backend with the factory. Binaries
// import it for side effects; the config decides which backend actually runs.
package all

import (
	_ "github.com/LeonHartK/datasetExploration/internal/storage/mssql"
	_ "github.com/LeonHartK/datasetExploration/internal/storage/postgres"
	_ "github.com/LeonHartK/datasetExploration/internal/storage/sqlite"
)

package memory

import "errors"

var errDuplicateReport = errors.New("report already exists for period")

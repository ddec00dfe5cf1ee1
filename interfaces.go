package rageval

import (
	"github.com/datar-psa/rageval/api"
)

type Embedder = api.Embedder
type Metric = api.Metric

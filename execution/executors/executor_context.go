package executors

import (
	"context"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
)

// ExecutorContext stores all the context necessary to run an executor
type ExecutorContext struct {
	ctx     context.Context
	catalog *catalog.Catalog
	config  *common.Config
}

func NewExecutorContext(ctx context.Context, catalog *catalog.Catalog, config *common.Config) *ExecutorContext {
	if config == nil {
		config = common.NewConfig()
	}
	return &ExecutorContext{ctx, catalog, config}
}

func (e *ExecutorContext) GetContext() context.Context {
	return e.ctx
}

func (e *ExecutorContext) GetCatalog() *catalog.Catalog {
	return e.catalog
}

func (e *ExecutorContext) GetConfig() *common.Config {
	return e.config
}

// WithContext returns a copy of e which is canceled with ctx
func (e *ExecutorContext) WithContext(ctx context.Context) *ExecutorContext {
	return &ExecutorContext{ctx, e.catalog, e.config}
}
